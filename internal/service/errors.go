package service

import "errors"

var (
	// ErrInvalidCredentials indicates an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountSuspended indicates the account exists but is suspended.
	ErrAccountSuspended = errors.New("account is suspended")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound indicates the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrLoopNotFound indicates the target loop does not exist.
	ErrLoopNotFound = errors.New("loop not found")
	// ErrInvalidDate indicates a date filter could not be parsed.
	ErrInvalidDate = errors.New("invalid date")
	// ErrUnsupportedFormat indicates an export format outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
