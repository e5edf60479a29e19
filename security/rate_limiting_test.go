package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"djanselme/internal/status"
)

func TestAllow_UnderLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 3, time.Hour)

	key := SubmissionKey("booking", "Client@Example.com")
	mock.ExpectIncr("ratelimit:" + key).SetVal(1)
	mock.ExpectExpire("ratelimit:"+key, time.Hour).SetVal(true)

	err := limiter.Allow(context.Background(), key)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_ExpireOnlyOnFirstAttempt(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 3, time.Hour)

	mock.ExpectIncr("ratelimit:booking:a@b.fr").SetVal(2)

	err := limiter.Allow(context.Background(), "booking:a@b.fr")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_OverLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 3, time.Hour)

	mock.ExpectIncr("ratelimit:booking:a@b.fr").SetVal(4)

	err := limiter.Allow(context.Background(), "booking:a@b.fr")

	assert.ErrorIs(t, err, status.ErrRateLimited)
}

func TestAllow_FallsBackToMemoryOnRedisError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 2, time.Hour)

	for i := 0; i < 3; i++ {
		mock.ExpectIncr("ratelimit:quote:a@b.fr").SetErr(errors.New("connection refused"))
	}

	ctx := context.Background()
	assert.NoError(t, limiter.Allow(ctx, "quote:a@b.fr"))
	assert.NoError(t, limiter.Allow(ctx, "quote:a@b.fr"))
	assert.ErrorIs(t, limiter.Allow(ctx, "quote:a@b.fr"), status.ErrRateLimited)
}

func TestAllow_MemoryFallbackWindowExpiry(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 1, 50*time.Millisecond)

	for i := 0; i < 3; i++ {
		mock.ExpectIncr("ratelimit:booking:x@y.fr").SetErr(errors.New("down"))
	}

	ctx := context.Background()
	assert.NoError(t, limiter.Allow(ctx, "booking:x@y.fr"))
	assert.ErrorIs(t, limiter.Allow(ctx, "booking:x@y.fr"), status.ErrRateLimited)

	time.Sleep(60 * time.Millisecond)
	assert.NoError(t, limiter.Allow(ctx, "booking:x@y.fr"))
}

func TestSubmissionKey_SeparatesFormsAndNormalizesEmail(t *testing.T) {
	assert.Equal(t, "booking:a@b.fr", SubmissionKey("booking", "A@B.fr"))
	assert.Equal(t, "quote:a@b.fr", SubmissionKey("quote", "a@b.fr"))
	assert.NotEqual(t, SubmissionKey("booking", "a@b.fr"), SubmissionKey("quote", "a@b.fr"))
}

func TestNotificationKey(t *testing.T) {
	assert.Equal(t, "notify:a@b.fr:10.0.0.1", NotificationKey("A@B.fr", "10.0.0.1"))
}

func TestIsSuspiciousUserAgent(t *testing.T) {
	assert.True(t, isSuspiciousUserAgent("Googlebot/2.1"))
	assert.True(t, isSuspiciousUserAgent("my-Crawler"))
	assert.True(t, isSuspiciousUserAgent("web spider"))
	assert.False(t, isSuspiciousUserAgent("Mozilla/5.0 (Macintosh)"))
	assert.False(t, isSuspiciousUserAgent(""))
}
