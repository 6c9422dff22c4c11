package types

import "errors"

var (
	ErrNoProfilesFound    = errors.New("no AWS profiles found. Please configure AWS CLI first")
	ErrProfileNotFound    = errors.New("the specified profile was not found in AWS configuration")
	ErrWrongAccount       = errors.New("caller identity does not match the expected audit account")
	ErrUnknownQuerySource = errors.New("unknown query source: must be \"athena\" or \"logs\"")
)
