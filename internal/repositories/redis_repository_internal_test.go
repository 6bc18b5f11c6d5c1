package repository

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/config"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anyMember matches a ZADD whose member is generated per call.
func anyMember(expected, actual []any) error {
	if len(expected) != len(actual) {
		return fmt.Errorf("expected %d args, got %d", len(expected), len(actual))
	}

	for i := 0; i < len(expected)-1; i++ {
		if fmt.Sprint(expected[i]) != fmt.Sprint(actual[i]) {
			return fmt.Errorf("arg %d: expected %v, got %v", i, expected[i], actual[i])
		}
	}

	return nil
}

func setupRateLimiter(t *testing.T, now time.Time) (*redisRepository, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	repo := &redisRepository{
		client: client,
		cfg:    config.RateConfig{MaxAttempts: 5, WindowSize: 15 * time.Second},
		now:    func() time.Time { return now },
	}

	return repo, mock
}

func expectAttempt(mock redismock.ClientMock, key string, now time.Time, count int64) {
	windowStart := strconv.FormatInt(now.Unix()-15, 10)

	mock.ExpectZRemRangeByScore(key, "0", windowStart).SetVal(0)
	mock.CustomMatch(anyMember).ExpectZAdd(key, redis.Z{Score: float64(now.Unix()), Member: "member"}).SetVal(1)
	mock.ExpectZCard(key).SetVal(count)
	mock.ExpectExpire(key, 15*time.Second).SetVal(true)
}

func TestCheckLoginRateLimit(t *testing.T) {
	email := "buyer@example.com"
	key := loginAttemptsKey(email)
	now := time.Unix(1_700_000_000, 0)

	t.Run("Success - Under the limit", func(t *testing.T) {
		// Arrange
		repo, mock := setupRateLimiter(t, now)
		expectAttempt(mock, key, now, 2)

		// Act
		allowed, remaining, retryAfter, err := repo.CheckLoginRateLimit(t.Context(), email)

		// Assert
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 3, remaining)
		assert.Zero(t, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Blocked - Retry after oldest attempt leaves the window", func(t *testing.T) {
		// Arrange
		repo, mock := setupRateLimiter(t, now)
		expectAttempt(mock, key, now, 6)
		mock.ExpectZRangeWithScores(key, 0, 0).SetVal([]redis.Z{{Score: float64(now.Unix() - 5), Member: "oldest"}})

		// Act
		allowed, remaining, retryAfter, err := repo.CheckLoginRateLimit(t.Context(), email)

		// Assert
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.Equal(t, 10, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Blocked - Empty set falls back to the window", func(t *testing.T) {
		// Arrange
		repo, mock := setupRateLimiter(t, now)
		expectAttempt(mock, key, now, 6)
		mock.ExpectZRangeWithScores(key, 0, 0).SetVal([]redis.Z{})

		// Act
		allowed, _, retryAfter, err := repo.CheckLoginRateLimit(t.Context(), email)

		// Assert
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, 15, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Pipeline error", func(t *testing.T) {
		// Arrange
		repo, mock := setupRateLimiter(t, now)
		mock.ExpectZRemRangeByScore(key, "0", strconv.FormatInt(now.Unix()-15, 10)).SetErr(errors.New("connection refused"))

		// Act
		allowed, _, _, err := repo.CheckLoginRateLimit(t.Context(), email)

		// Assert
		require.Error(t, err)
		assert.False(t, allowed)
		assert.Contains(t, err.Error(), "redis pipeline error")
	})
}
