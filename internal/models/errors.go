package models

import "errors"

var (
	ErrPermissionDenied      = errors.New("position permission denied")
	ErrFixTimeout            = errors.New("position fix timed out")
	ErrCapabilityUnavailable = errors.New("capability unavailable")
	ErrStorageFailure        = errors.New("storage failure")
	ErrNotFound              = errors.New("record not found")
	ErrNoSession             = errors.New("no active session")
)
