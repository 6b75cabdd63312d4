package service

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPostNotFound = errors.New("post not found")
)
