package service

import "errors"

var (
	// ErrUnavailable marks a collaborator (AI, OCR, speech) that is not
	// configured or not reachable.
	ErrUnavailable = errors.New("service unavailable")

	ErrEmptyMessage   = errors.New("message is empty")
	ErrMessageTooLong = errors.New("message is too long")
	ErrGrowthTooLong  = errors.New("growth horizon too long")
	ErrEmptyUpload    = errors.New("upload is empty")

	ErrInvalidTransaction = errors.New("invalid transaction")
)
