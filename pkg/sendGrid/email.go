package sendGrid

import (
	"context"
	"fmt"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService delivers one email per call. It does not retry.
type EmailService interface {
	Send(ctx context.Context, req *models.EmailNotificationRequest) error
}

// DeliveryError is returned when SendGrid answers with a 4xx or 5xx.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to send email, status code: %d", e.StatusCode)
}

type Option func(*emailService)

// WithBaseURL points the client at another host, e.g. an httptest server.
func WithBaseURL(url string) Option {
	return func(s *emailService) { s.client.Request.BaseURL = url }
}

// WithSandbox asks SendGrid to validate messages without delivering them.
func WithSandbox(enabled bool) Option {
	return func(s *emailService) { s.sandbox = enabled }
}

type emailService struct {
	client  *sendgrid.Client
	from    *mail.Email
	sandbox bool
}

func NewEmailService(apiKey, fromEmail, fromName string, opts ...Option) EmailService {
	s := &emailService{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *emailService) buildMessage(req *models.EmailNotificationRequest) *mail.SGMailV3 {
	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", req.To))
	p.Subject = req.Subject

	for _, addr := range req.CC {
		p.AddCCs(mail.NewEmail("", addr))
	}
	for _, addr := range req.BCC {
		p.AddBCCs(mail.NewEmail("", addr))
	}

	message := mail.NewV3Mail().
		SetFrom(s.from).
		AddPersonalizations(p).
		AddContent(mail.NewContent("text/plain", req.Content))

	if req.HTMLContent != "" {
		message.AddContent(mail.NewContent("text/html", req.HTMLContent))
	}

	if s.sandbox {
		message.SetMailSettings(mail.NewMailSettings().SetSandboxMode(mail.NewSetting(true)))
	}

	return message
}

func (s *emailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {
	resp, err := s.client.SendWithContext(ctx, s.buildMessage(req))
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &DeliveryError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	return nil
}
