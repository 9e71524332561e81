package model

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateID   = errors.New("duplicate id")
	ErrDuplicateName = errors.New("duplicate name")
	ErrInvalidInput  = errors.New("invalid input")
)
