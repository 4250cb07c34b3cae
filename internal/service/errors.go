package service

import (
	"errors"
)

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrExpiredToken         = errors.New("token expired")
	ErrWrongTokenType       = errors.New("wrong token type")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrEmptyUpdate          = errors.New("empty update")
	ErrConflict             = errors.New("conflict")
	ErrMissingReference     = errors.New("missing reference")
	ErrProtected            = errors.New("protected resource")
)

// Error pairs a sentinel kind with the message shown to the client.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string { return e.Detail }
func (e *Error) Unwrap() error { return e.Kind }

func fail(kind error, detail string) error {
	return &Error{Kind: kind, Detail: detail}
}

var (
	errBadCredentials = fail(ErrAuthenticationFailed, "Bad username or password")

	ErrMissingToken   = fail(ErrUnauthorized, "Missing Authorization Header")
	errInvalidToken   = fail(ErrUnauthorized, "Signature verification failed")
	errRevokedToken   = fail(ErrUnauthorized, "Token has been revoked")
	errUnknownSubject = fail(ErrUnauthorized, "User not found")
	errExpiredToken   = fail(ErrExpiredToken, "Token has expired")
	errOnlyAccess     = fail(ErrWrongTokenType, "Only access tokens are allowed")
	errOnlyRefresh    = fail(ErrWrongTokenType, "Only refresh tokens are allowed")

	errUserNotFound    = fail(ErrNotFound, "User not found")
	errSummaryNotFound = fail(ErrNotFound, "Summary not found")
	errCommentNotFound = fail(ErrNotFound, "Comment not found")
	errRoleNotFound    = fail(ErrNotFound, "Role not found")

	ErrMissingUser    = fail(ErrMissingReference, "User not found")
	ErrMissingSummary = fail(ErrMissingReference, "Summary not found")
	ErrMissingRole    = fail(ErrMissingReference, "Role not found")

	errUserExists = fail(ErrConflict, "User already exists")
	errRoleExists = fail(ErrConflict, "Role already exists")
	errRoleInUse  = fail(ErrConflict, "Role is assigned to users")

	errBuiltinRole = fail(ErrProtected, "Built-in role cannot be renamed or deleted")
)
