package main

import "github.com/d60-Lab/tweetfeed/internal/cli"

func main() {
	cli.Execute()
}
