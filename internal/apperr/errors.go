package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrRemote   = errors.New("remote request failed")
)
