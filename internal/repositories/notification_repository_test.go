package repository_test

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	repository "github.com/aaravmahajanofficial/multivendor-marketplace/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notificationRowColumns = []string{"id", "type", "recipient", "subject", "content", "status", "error_message", "metadata", "created_at", "updated_at"}

func TestNotificationRepository_CreateNotification(t *testing.T) {
	expectedSQL := regexp.QuoteMeta(`INSERT INTO notifications (id, type, recipient, subject, content, status, error_message, metadata, created_at, updated_at)`)

	t.Run("Success - With metadata", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewNotificationRepo(db)
		now := time.Now()
		notification := &models.Notification{
			ID:        uuid.New(),
			Type:      models.NotificationTypeEmail,
			Recipient: "ada@example.com",
			Subject:   "Order Confirmation - ORD-1A2B3C4D",
			Content:   "Thank you for your order",
			Status:    models.StatusPending,
			Metadata:  json.RawMessage(`{"order_id":"1"}`),
		}

		mock.ExpectQuery(expectedSQL).
			WithArgs(notification.ID, notification.Type, notification.Recipient, notification.Subject,
				notification.Content, notification.Status, "", []byte(`{"order_id":"1"}`)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		// Act
		err := repo.CreateNotification(t.Context(), notification)

		// Assert
		require.NoError(t, err)
		assert.WithinDuration(t, now, notification.CreatedAt, time.Second)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Without metadata stores NULL", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewNotificationRepo(db)
		now := time.Now()
		notification := &models.Notification{
			ID:        uuid.New(),
			Type:      models.NotificationTypeEmail,
			Recipient: "ada@example.com",
			Content:   "hello",
			Status:    models.StatusPending,
		}

		mock.ExpectQuery(expectedSQL).
			WithArgs(notification.ID, notification.Type, notification.Recipient, "", "hello", notification.Status, "", nil).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		// Act
		err := repo.CreateNotification(t.Context(), notification)

		// Assert
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationRepository_GetNotificationByID(t *testing.T) {
	notificationID := uuid.New()
	expectedSQL := regexp.QuoteMeta(`FROM notifications WHERE id = $1`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewNotificationRepo(db)
		now := time.Now()

		mock.ExpectQuery(expectedSQL).
			WithArgs(notificationID).
			WillReturnRows(sqlmock.NewRows(notificationRowColumns).AddRow(
				notificationID.String(), "email", "ada@example.com", "subject", "content", "failed",
				"status code 500", []byte(`{"order_id":"1"}`), now, now))

		// Act
		notification, err := repo.GetNotificationByID(t.Context(), notificationID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailed, notification.Status)
		assert.Equal(t, "status code 500", notification.ErrorMessage)
		assert.JSONEq(t, `{"order_id":"1"}`, string(notification.Metadata))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewNotificationRepo(db)

		mock.ExpectQuery(expectedSQL).WithArgs(notificationID).WillReturnRows(sqlmock.NewRows(notificationRowColumns))

		// Act
		notification, err := repo.GetNotificationByID(t.Context(), notificationID)

		// Assert
		require.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, notification)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationRepository_UpdateNotificationStatus(t *testing.T) {
	notificationID := uuid.New()
	expectedSQL := regexp.QuoteMeta(`UPDATE notifications SET status = $1, error_message = $2, updated_at = NOW() WHERE id = $3`)

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewNotificationRepo(db)

		mock.ExpectExec(expectedSQL).
			WithArgs(models.StatusSent, "", notificationID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateNotificationStatus(t.Context(), notificationID, models.StatusSent, "")

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewNotificationRepo(db)

		mock.ExpectExec(expectedSQL).
			WithArgs(models.StatusFailed, "boom", notificationID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateNotificationStatus(t.Context(), notificationID, models.StatusFailed, "boom")

		require.ErrorIs(t, err, repository.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationRepository_ListNotifications(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewNotificationRepo(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM notifications`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM notifications ORDER BY created_at DESC LIMIT $1 OFFSET $2`)).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(notificationRowColumns).
			AddRow(uuid.NewString(), "email", "a@example.com", "s", "c", "sent", "", nil, now, now).
			AddRow(uuid.NewString(), "email", "b@example.com", "s", "c", "pending", "", nil, now, now))

	notifications, total, err := repo.ListNotifications(t.Context(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, notifications, 2)
	assert.Nil(t, notifications[0].Metadata)
	assert.Equal(t, models.StatusPending, notifications[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
