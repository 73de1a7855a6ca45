package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoAccess        = errors.New("access expired or never granted")
	ErrSourceDown      = errors.New("listing source unavailable")
)
