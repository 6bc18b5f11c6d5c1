package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	service "github.com/aaravmahajanofficial/multivendor-marketplace/internal/services"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils/response"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) GetNotification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		notification, err := h.notificationService.GetNotification(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, notification)
	}
}

func (h *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		page, pageSize := utils.ParsePagination(r)

		logger = logger.With(slog.Int("page", page), slog.Int("pageSize", pageSize))

		notifications, total, err := h.notificationService.ListNotifications(r.Context(), page, pageSize)
		if err != nil {
			logger.Error("Failed to list notifications", slog.Any("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Notifications listed", slog.Int("count", len(notifications)), slog.Int("total", total))
		response.Paginated(w, notifications, total, page, pageSize)
	}
}
