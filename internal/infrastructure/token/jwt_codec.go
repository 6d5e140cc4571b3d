package token

import (
	"errors"
	"fmt"
	"time"

	domain "maximus/auth/internal/domain/auth"
	usecase "maximus/auth/internal/usecase/auth"

	"github.com/golang-jwt/jwt/v5"
)

// exp is whole seconds; a token stays valid through the second it expires in.
const expiryLeeway = time.Second

// JWTCodec signs and verifies HS256 session tokens with a single shared secret.
type JWTCodec struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTCodec constructs a codec around the provided secret.
func NewJWTCodec(secret []byte) (*JWTCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	key := make([]byte, len(secret))
	copy(key, secret)

	return &JWTCodec{
		secret: key,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(expiryLeeway),
		),
	}, nil
}

// Ensure JWTCodec implements the TokenCodec interface.
var _ usecase.TokenCodec = (*JWTCodec)(nil)

// Claims is the wire payload: {"user_id": <int>, "exp": <unix seconds>}.
type Claims struct {
	UserID *int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Encode creates a signed token for userID expiring at expireAt.
// A past expireAt is accepted; expiry is only enforced by Decode.
func (c *JWTCodec) Encode(userID int64, expireAt time.Time) (string, error) {
	claims := Claims{
		UserID: &userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireAt.UTC()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the token and returns its payload.
func (c *JWTCodec) Decode(tokenString string) (domain.TokenPayload, error) {
	if len(tokenString) == 0 {
		return domain.TokenPayload{}, domain.ErrMissingToken
	}

	token, err := c.parser.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.TokenPayload{}, fmt.Errorf("%w: %v", domain.ErrExpiredToken, err)
		}
		return domain.TokenPayload{}, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.TokenPayload{}, fmt.Errorf("%w: invalid token claims", domain.ErrMalformedToken)
	}
	if claims.UserID == nil {
		return domain.TokenPayload{}, fmt.Errorf("%w: user_id claim missing", domain.ErrMalformedToken)
	}
	return domain.TokenPayload{UserID: *claims.UserID}, nil
}
