package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrActivityNotFound   = errors.New("activity not found")
	ErrCodeTaken          = errors.New("activity code already in use")
	ErrQuestionIncomplete = errors.New("question and expected answer must be set together")

	// ErrAlreadyCompleted is the ledger guard's duplicate outcome;
	// ErrStorageUnavailable is the only error a client should retry.
	ErrAlreadyCompleted   = errors.New("activity already validated")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
