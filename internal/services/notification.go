package service

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/metrics"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	repository "github.com/aaravmahajanofficial/multivendor-marketplace/internal/repositories"
	"github.com/aaravmahajanofficial/multivendor-marketplace/pkg/sendGrid"
	"github.com/google/uuid"
)

const deliveryTimeout = 30 * time.Second

// Notifier accepts email jobs without blocking the caller.
type Notifier interface {
	// Enqueue reports whether the job was accepted. A full or stopped queue drops it.
	Enqueue(ctx context.Context, req *models.EmailNotificationRequest) bool
}

// EmailDeliveryError is a failed send. It is logged and recorded, never returned to a client.
type EmailDeliveryError struct {
	NotificationID uuid.UUID
	Recipient      string
	Err            error
}

func (e *EmailDeliveryError) Error() string {
	return fmt.Sprintf("email delivery to %s failed: %v", e.Recipient, e.Err)
}

func (e *EmailDeliveryError) Unwrap() error {
	return e.Err
}

type emailJob struct {
	req    *models.EmailNotificationRequest
	logger *slog.Logger
}

// EmailNotifier is a bounded queue of email jobs drained by a fixed set of workers.
type EmailNotifier struct {
	repo    repository.NotificationRepository
	email   sendGrid.EmailService
	jobs    chan emailJob
	workers int

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

func NewEmailNotifier(repo repository.NotificationRepository, email sendGrid.EmailService, workers, queueSize int) *EmailNotifier {

	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	return &EmailNotifier{
		repo:    repo,
		email:   email,
		jobs:    make(chan emailJob, queueSize),
		workers: workers,
	}
}

// Start launches the workers. Call it once.
func (n *EmailNotifier) Start() {
	for i := 0; i < n.workers; i++ {
		n.wg.Add(1)
		go n.work()
	}
}

func (n *EmailNotifier) Enqueue(ctx context.Context, req *models.EmailNotificationRequest) bool {

	logger := middleware.LoggerFromContext(ctx)

	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.stopped {
		logger.Warn("Notifier stopped, dropping email", "recipient", req.To)
		metrics.RecordNotification(metrics.NotificationDropped)
		return false
	}

	select {
	case n.jobs <- emailJob{req: req, logger: logger}:
		return true
	default:
		logger.Warn("Notification queue full, dropping email", "recipient", req.To)
		metrics.RecordNotification(metrics.NotificationDropped)
		return false
	}
}

// Backlog reports queued jobs against queue capacity.
func (n *EmailNotifier) Backlog() (queued, capacity int) {
	return len(n.jobs), cap(n.jobs)
}

// Shutdown stops intake and waits for queued jobs until ctx is done.
func (n *EmailNotifier) Shutdown(ctx context.Context) error {

	n.mu.Lock()
	if !n.stopped {
		n.stopped = true
		close(n.jobs)
	}
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *EmailNotifier) work() {
	defer n.wg.Done()

	for job := range n.jobs {
		ctx, cancel := context.WithTimeout(middleware.WithLogger(context.Background(), job.logger), deliveryTimeout)

		if err := n.deliver(ctx, job.req); err != nil {
			var deliveryErr *EmailDeliveryError
			if stdErrors.As(err, &deliveryErr) {
				job.logger.Error("Email delivery failed",
					"notification_id", deliveryErr.NotificationID, "recipient", deliveryErr.Recipient, "error", deliveryErr.Err)
				metrics.RecordNotification(string(models.StatusFailed))
			} else {
				job.logger.Error("Email job failed", "recipient", job.req.To, "error", err)
				metrics.RecordNotification(metrics.NotificationError)
			}
		} else {
			metrics.RecordNotification(string(models.StatusSent))
		}

		cancel()
	}
}

// deliver records the notification, makes a single send attempt and stores the outcome.
func (n *EmailNotifier) deliver(ctx context.Context, req *models.EmailNotificationRequest) error {

	var metadata json.RawMessage

	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadata = raw
	}

	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      models.NotificationTypeEmail,
		Recipient: req.To,
		Subject:   req.Subject,
		Content:   req.Content,
		Status:    models.StatusPending,
		Metadata:  metadata,
	}

	if err := n.repo.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification record: %w", err)
	}

	if sendErr := n.email.Send(ctx, req); sendErr != nil {
		if err := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusFailed, sendErr.Error()); err != nil {
			middleware.LoggerFromContext(ctx).Error("Failed to record notification failure", "notification_id", notification.ID, "error", err)
		}

		return &EmailDeliveryError{NotificationID: notification.ID, Recipient: req.To, Err: sendErr}
	}

	if err := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusSent, ""); err != nil {
		return fmt.Errorf("notification sent but failed to update status: %w", err)
	}

	return nil
}

// BuildOrderConfirmation renders the order invoice email.
func BuildOrderConfirmation(order *models.Order) *models.EmailNotificationRequest {

	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\n", order.FirstName)
	b.WriteString("Thank you for your order.\n\n")
	fmt.Fprintf(&b, "Order Number: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Date: %s\n", order.CreatedAt.Format("January 2, 2006"))
	fmt.Fprintf(&b, "Status: %s\n\n", order.Status)
	b.WriteString("Items:\n")

	for _, item := range order.Items {
		fmt.Fprintf(&b, "%s x%d @ $%s = $%s\n",
			item.ProductName, item.Quantity, item.UnitPrice.StringFixed(2), item.Subtotal().StringFixed(2))
	}

	fmt.Fprintf(&b, "\nSubtotal: $%s\n", order.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Shipping: $%s\n", order.ShippingCost.StringFixed(2))
	fmt.Fprintf(&b, "Total: $%s\n\n", order.Total.StringFixed(2))
	fmt.Fprintf(&b, "Shipping to:\n%s %s\n%s\n%s %s\n%s\n",
		order.FirstName, order.LastName, order.ShippingAddress, order.City, order.PostalCode, order.Country)

	return &models.EmailNotificationRequest{
		To:      order.Email,
		Subject: fmt.Sprintf("Order Confirmation - Order #%s", order.OrderNumber),
		Content: b.String(),
		Metadata: map[string]string{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
		},
	}
}

type NotificationService interface {
	GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ListNotifications(ctx context.Context, page, size int) ([]*models.Notification, int, error)
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error) {

	notification, err := s.repo.GetNotificationByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Notification not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch notification").WithError(err)
	}

	return notification, nil
}

func (s *notificationService) ListNotifications(ctx context.Context, page, size int) ([]*models.Notification, int, error) {

	notifications, total, err := s.repo.ListNotifications(ctx, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch notifications").WithError(err)
	}

	return notifications, total, nil
}
