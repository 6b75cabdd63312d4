// Package cli feedcli 的 cobra 命令
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/tweetfeed/internal/client"
	"github.com/d60-Lab/tweetfeed/internal/session"
)

var errNotLoggedIn = errors.New("not logged in, run `feedcli login <name>` first")

// app 一次调用内各命令共享的状态
type app struct {
	server      string
	sessionPath string

	sess   *session.Session
	client *client.Client
	out    io.Writer
}

// NewRootCmd 构建命令树，输出写到 out
func NewRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "feedcli",
		Short:         "Post tweets and toggle likes from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	defServer := os.Getenv("TWEETFEED_SERVER")
	if defServer == "" {
		defServer = "http://localhost:8080"
	}
	root.PersistentFlags().StringVar(&a.server, "server", defServer, "feed server base URL")
	root.PersistentFlags().StringVar(&a.sessionPath, "session", "", "session file (default $XDG_CONFIG_HOME/tweetfeed/session.json)")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newThemeCmd(a),
		newListCmd(a),
		newPostCmd(a),
		newLikeCmd(a),
		newWatchCmd(a),
	)
	return root
}

// Execute 按 os.Args 运行
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	root := NewRootCmd(os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) init() error {
	path := a.sessionPath
	if path == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	sess, err := session.Load(path)
	if err != nil {
		return err
	}
	a.sess = sess
	a.client = client.New(a.server, nil)
	return nil
}

func (a *app) requireLogin() error {
	if !a.sess.LoggedIn() {
		return errNotLoggedIn
	}
	return nil
}

func (a *app) view() *client.View { return client.NewView(a.out, a.sess.Theme) }

// refresh 重新拉取整个列表并打印
func (a *app) refresh(ctx context.Context) error {
	posts, err := a.client.List(ctx)
	if err != nil {
		return err
	}
	a.view().Feed(posts, a.sess.Username)
	return nil
}
