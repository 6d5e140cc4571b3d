package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	domain "maximus/auth/internal/domain/auth"
	"maximus/auth/internal/requestid"

	"go.uber.org/zap"
)

// DefaultTokenTTL is the lifetime of issued tokens when none is configured.
const DefaultTokenTTL = 30 * time.Minute

// Service coordinates token issuance and validation.
type Service struct {
	tokens  TokenCodec
	ttl     time.Duration
	logger  *zap.Logger
	nowFunc func() time.Time
}

// NewService constructs an auth service. A non-positive ttl falls back to DefaultTokenTTL
// and a nil logger disables logging.
func NewService(tokens TokenCodec, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tokens:  tokens,
		ttl:     ttl,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// TTL returns the lifetime applied to issued tokens.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue parses rawUserID and returns a token for it expiring after the configured TTL.
func (s *Service) Issue(ctx context.Context, rawUserID string) (string, error) {
	log := s.logger.With(requestid.Fields(ctx)...)
	log.Info("issuing token")

	rawUserID = strings.TrimSpace(rawUserID)
	if rawUserID == "" {
		log.Warn("token requested without a user id")
		return "", domain.ErrMissingUserID
	}

	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil || userID < 0 {
		log.Warn("token requested with an unparsable user id", zap.String("user_id", rawUserID))
		return "", domain.ErrInvalidUserID
	}

	token, err := s.tokens.Encode(userID, s.nowFunc().UTC().Add(s.ttl))
	if err != nil {
		log.Error("token encoding failed", zap.Int64("user_id", userID), zap.Error(err))
		return "", fmt.Errorf("issue token: %w", err)
	}

	log.Info("issued token", zap.Int64("user_id", userID))
	return token, nil
}

// Validate decodes rawToken and returns the user id it carries.
func (s *Service) Validate(ctx context.Context, rawToken string) (int64, error) {
	log := s.logger.With(requestid.Fields(ctx)...)
	log.Info("starting to authenticate a token")

	payload, err := s.tokens.Decode(rawToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingToken):
			log.Warn("tried to authenticate without a token or with an incorrect body")
		case errors.Is(err, domain.ErrExpiredToken):
			log.Warn("expired token attempted to authenticate")
		case errors.Is(err, domain.ErrMalformedToken):
			log.Warn("invalid token attempted to authenticate", zap.Error(err))
		default:
			log.Error("token validation failed", zap.Error(err))
		}
		return 0, err
	}

	log.Info("successfully authenticated token", zap.Int64("user_id", payload.UserID))
	return payload.UserID, nil
}
