package domain

import "errors"

// Error kinds. Every error returned from a service wraps exactly one of these
// so the HTTP layer can pick a status code with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrRateLimited     = errors.New("too many attempts")
)

// Error is a domain failure with a client-safe message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Invalid builds a validation error with the given message.
func Invalid(msg string) error { return newError(ErrValidation, msg) }

// Denied builds an authorization error with the given reason.
func Denied(reason string) error { return newError(ErrForbidden, reason) }

var (
	ErrInvalidCredentials = newError(ErrUnauthenticated, "invalid credentials")
	ErrInvalidToken       = newError(ErrUnauthenticated, "invalid token")
	ErrAccountGone        = newError(ErrUnauthenticated, "account no longer exists")
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrUserExists         = newError(ErrConflict, "username or email already taken")
	ErrSelfVote           = newError(ErrValidation, "cannot vote for yourself")
	ErrVoteRace           = newError(ErrConflict, "vote changed concurrently, retry")
	ErrNewsNotFound       = newError(ErrNotFound, "news not found")
	ErrPostNotFound       = newError(ErrNotFound, "post not found")
	ErrDrinkNotFound      = newError(ErrNotFound, "drink not found")
	ErrCommentNotFound    = newError(ErrNotFound, "comment not found")
	ErrReviewNotFound     = newError(ErrNotFound, "review not found")
	ErrShiftNotFound      = newError(ErrNotFound, "shift not found")
	ErrNoFields           = newError(ErrValidation, "no fields to update")
	ErrTooManyLogins      = newError(ErrRateLimited, "too many login attempts, try again later")
)
