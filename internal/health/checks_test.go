package health_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/health"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedBacklog struct{ queued, capacity int }

func (b fixedBacklog) Backlog() (int, int) { return b.queued, b.capacity }

type healthBody struct {
	Status   string            `json:"status"`
	Failures map[string]string `json:"failures"`
}

func TestHealthHandler(t *testing.T) {

	t.Run("Success - All dependencies up", func(t *testing.T) {
		// Arrange
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		dbMock.ExpectPing()

		redisClient, redisMock := redismock.NewClientMock()
		redisMock.ExpectPing().SetVal("PONG")

		h, err := health.NewHealthHandler("test", &health.Endpoints{DB: db, RedisClient: redisClient})
		require.NoError(t, err)

		// Act
		recorder := httptest.NewRecorder()
		h.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var body healthBody
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "OK", body.Status)
	})

	t.Run("Failure - Redis down", func(t *testing.T) {
		// Arrange
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		dbMock.ExpectPing()

		redisClient, redisMock := redismock.NewClientMock()
		redisMock.ExpectPing().SetErr(errors.New("connection refused"))

		h, err := health.NewHealthHandler("test", &health.Endpoints{DB: db, RedisClient: redisClient})
		require.NoError(t, err)

		// Act
		recorder := httptest.NewRecorder()
		h.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

		// Assert
		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

		var body healthBody
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "Unavailable", body.Status)
		assert.Contains(t, body.Failures, "redis")
	})

	t.Run("Failure - Full email queue only degrades", func(t *testing.T) {
		// Arrange
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		dbMock.ExpectPing()

		redisClient, redisMock := redismock.NewClientMock()
		redisMock.ExpectPing().SetVal("PONG")

		h, err := health.NewHealthHandler("test", &health.Endpoints{
			DB:            db,
			RedisClient:   redisClient,
			Notifications: fixedBacklog{queued: 100, capacity: 100},
		})
		require.NoError(t, err)

		// Act
		recorder := httptest.NewRecorder()
		h.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var body healthBody
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "Partially Available", body.Status)
		assert.Contains(t, body.Failures, "notification-queue")
	})
}
