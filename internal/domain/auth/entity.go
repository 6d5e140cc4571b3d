package auth

import "errors"

var (
	// ErrMissingToken indicates no token was supplied.
	ErrMissingToken = errors.New("token missing")
	// ErrExpiredToken means the token signature is valid but its expiry has passed.
	ErrExpiredToken = errors.New("token expired")
	// ErrMalformedToken covers unparsable tokens and signature mismatches.
	ErrMalformedToken = errors.New("token malformed or signature invalid")
	// ErrMissingUserID indicates no user id was supplied for issuance.
	ErrMissingUserID = errors.New("user id missing")
	// ErrInvalidUserID indicates the supplied user id is not a non-negative integer.
	ErrInvalidUserID = errors.New("user id invalid")
)

// TokenPayload is the subject carried by a validated token.
type TokenPayload struct {
	UserID int64
}
