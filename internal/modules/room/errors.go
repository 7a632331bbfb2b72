package room

import "errors"

var (
	ErrForbidden          = errors.New("action not allowed for this user in this room")
	ErrNotFound           = errors.New("room or membership not found")
	ErrAlreadyMember      = errors.New("user is already a member of this room")
	ErrInvalidRole        = errors.New("invalid room role")
	ErrLastAdmin          = errors.New("room must keep at least one admin")
	ErrStorageUnavailable = errors.New("room storage unavailable")
)
