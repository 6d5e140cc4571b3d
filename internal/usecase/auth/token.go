package auth

import (
	"time"

	domain "maximus/auth/internal/domain/auth"
)

// TokenCodec abstracts token signing and verification.
type TokenCodec interface {
	Encode(userID int64, expireAt time.Time) (string, error)
	Decode(token string) (domain.TokenPayload, error)
}
