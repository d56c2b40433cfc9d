package models

import "errors"

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidID         = errors.New("invalid id")
	ErrAlreadyExists     = errors.New("already exists")
	ErrPaymentIncomplete = errors.New("payment not completed")
	ErrStorageDisabled   = errors.New("object storage is not configured")
)
