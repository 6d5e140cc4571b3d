package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "maximus/auth/internal/domain/auth"
	"maximus/auth/internal/infrastructure/token"
	"maximus/auth/internal/requestid"
	"maximus/auth/internal/usecase/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingCodec struct {
	userID   int64
	expireAt time.Time
	encodeFn func() (string, error)
}

func (c *recordingCodec) Encode(userID int64, expireAt time.Time) (string, error) {
	c.userID = userID
	c.expireAt = expireAt
	if c.encodeFn != nil {
		return c.encodeFn()
	}
	return "signed", nil
}

func (c *recordingCodec) Decode(string) (domain.TokenPayload, error) {
	return domain.TokenPayload{}, errors.New("not implemented")
}

func newJWTService(t *testing.T, ttl time.Duration) *auth.Service {
	t.Helper()
	codec, err := token.NewJWTCodec([]byte("service-test-secret"))
	require.NoError(t, err)
	return auth.NewService(codec, ttl, zap.NewNop())
}

func TestNewServiceDefaultsTTL(t *testing.T) {
	t.Parallel()

	svc := auth.NewService(&recordingCodec{}, 0, nil)
	assert.Equal(t, auth.DefaultTokenTTL, svc.TTL())
	assert.Equal(t, 30*time.Minute, svc.TTL())
}

func TestIssue(t *testing.T) {
	t.Parallel()

	t.Run("UsesTTLFromNow", func(t *testing.T) {
		codec := &recordingCodec{}
		svc := auth.NewService(codec, 0, zap.NewNop())

		before := time.Now().UTC()
		tok, err := svc.Issue(context.Background(), "15")
		require.NoError(t, err)

		assert.Equal(t, "signed", tok)
		assert.Equal(t, int64(15), codec.userID)
		assert.WithinDuration(t, before.Add(30*time.Minute), codec.expireAt, 5*time.Second)
	})

	t.Run("TrimsWhitespace", func(t *testing.T) {
		codec := &recordingCodec{}
		svc := auth.NewService(codec, time.Minute, zap.NewNop())

		_, err := svc.Issue(context.Background(), "  8 ")
		require.NoError(t, err)
		assert.Equal(t, int64(8), codec.userID)
	})

	t.Run("MissingUserID", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		svc := auth.NewService(&recordingCodec{}, time.Minute, zap.New(core))

		_, err := svc.Issue(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrMissingUserID)
		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
		assert.Equal(t, 1, logs.FilterMessage("issuing token").Len())
	})

	t.Run("InvalidUserID", func(t *testing.T) {
		svc := auth.NewService(&recordingCodec{}, time.Minute, zap.NewNop())

		for _, raw := range []string{"abc", "1.5", "-1", "1e3", "99999999999999999999"} {
			_, err := svc.Issue(context.Background(), raw)
			assert.ErrorIs(t, err, domain.ErrInvalidUserID, "input %q", raw)
		}
	})

	t.Run("EncodeFailure", func(t *testing.T) {
		boom := errors.New("boom")
		codec := &recordingCodec{encodeFn: func() (string, error) { return "", boom }}
		svc := auth.NewService(codec, time.Minute, zap.NewNop())

		_, err := svc.Issue(context.Background(), "1")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, domain.ErrInvalidUserID)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("IssuedTokenValidates", func(t *testing.T) {
		svc := newJWTService(t, time.Minute)

		tok, err := svc.Issue(context.Background(), "1")
		require.NoError(t, err)

		userID, err := svc.Validate(context.Background(), tok)
		require.NoError(t, err)
		assert.Equal(t, int64(1), userID)
	})

	t.Run("EmptyToken", func(t *testing.T) {
		svc := newJWTService(t, time.Minute)

		_, err := svc.Validate(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrMissingToken)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		svc := newJWTService(t, time.Minute)

		_, err := svc.Validate(context.Background(), "testtest")
		assert.ErrorIs(t, err, domain.ErrMalformedToken)
	})

	t.Run("ExpiredTokenLogsWarning", func(t *testing.T) {
		codec, err := token.NewJWTCodec([]byte("service-test-secret"))
		require.NoError(t, err)
		core, logs := observer.New(zapcore.InfoLevel)
		svc := auth.NewService(codec, time.Minute, zap.New(core))

		expired, err := codec.Encode(1, time.Now().Add(-30*time.Second))
		require.NoError(t, err)

		ctx := requestid.WithContext(context.Background(), "req-1")
		_, err = svc.Validate(ctx, expired)
		assert.ErrorIs(t, err, domain.ErrExpiredToken)

		warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
		require.Len(t, warnings, 1)
		assert.Equal(t, "req-1", warnings[0].ContextMap()["request_id"])
	})
}
