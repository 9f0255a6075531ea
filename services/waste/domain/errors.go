package domain

import "errors"

var (
	ErrWasteLogNotFound = errors.New("waste log not found")
	ErrInvalidWasteLog  = errors.New("invalid waste log")
)
