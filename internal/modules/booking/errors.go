package booking

import "errors"

var (
	ErrInvalidInterval    = errors.New("booking interval is invalid")
	ErrConflict           = errors.New("booking interval overlaps an existing booking")
	ErrNotFound           = errors.New("booking not found")
	ErrStorageUnavailable = errors.New("booking storage unavailable")
)
