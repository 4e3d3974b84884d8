// Package mailer sends the transactional emails of the back office: welcome,
// OTP, order confirmation, delivery confirmation and low-stock alerts.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"lifefashion/internal/models"
)

// Sender is the seam handlers depend on, so tests can swap in a fake.
type Sender interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendOTP(ctx context.Context, to, name, code string) error
	SendOrderConfirmation(ctx context.Context, to, name, orderID string) error
	SendLowStockAlert(ctx context.Context, productName string, quantity int) error
	SendDeliveryConfirmation(ctx context.Context, delivery models.Delivery) error
}

type Config struct {
	Host         string
	Port         int
	Username     string
	Password     string
	From         string
	NotifyEmail  string
	DashboardURL string
	OrderListURL string
}

// Mailer sends over SMTP. All methods block until the provider accepts or
// rejects the message; callers decide whether a failure is fatal.
type Mailer struct {
	client *mail.Client
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) (*Mailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	if cfg.From == "" {
		cfg.From = cfg.Username
	}

	return &Mailer{client: client, cfg: cfg, logger: logger}, nil
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, to, err)
	}

	m.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (m *Mailer) SendWelcome(ctx context.Context, to, name string) error {
	body, err := renderWelcome(name)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Welcome to Life Fashion", body)
}

func (m *Mailer) SendOTP(ctx context.Context, to, name, code string) error {
	body, err := renderOTP(name, code)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Your OTP Code - Life Fashion", body)
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, to, name, orderID string) error {
	body, err := renderOrderConfirmation(name, orderID, m.cfg.OrderListURL)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Your Order Confirmation - "+orderID, body)
}

func (m *Mailer) SendLowStockAlert(ctx context.Context, productName string, quantity int) error {
	if m.cfg.NotifyEmail == "" {
		return nil
	}
	body, err := renderLowStock(productName, quantity, m.cfg.DashboardURL)
	if err != nil {
		return err
	}
	return m.send(ctx, m.cfg.NotifyEmail, "Low Stock Alert: "+productName, body)
}

func (m *Mailer) SendDeliveryConfirmation(ctx context.Context, delivery models.Delivery) error {
	body, err := renderDeliveryConfirmation(delivery)
	if err != nil {
		return err
	}
	return m.send(ctx, delivery.Email, "Your Delivery Information Has Been Received", body)
}

var _ Sender = (*Mailer)(nil)

// Noop is used when SMTP is not configured and in tests. It logs what would
// have been sent and succeeds.
type Noop struct {
	Logger *zap.Logger
}

func (n Noop) log(kind, to string) {
	if n.Logger != nil {
		n.Logger.Info("email skipped, smtp not configured",
			zap.String("kind", kind), zap.String("to", to))
	}
}

func (n Noop) SendWelcome(ctx context.Context, to, name string) error {
	n.log("welcome", to)
	return nil
}

func (n Noop) SendOTP(ctx context.Context, to, name, code string) error {
	n.log("otp", to)
	return nil
}

func (n Noop) SendOrderConfirmation(ctx context.Context, to, name, orderID string) error {
	n.log("order-confirmation", to)
	return nil
}

func (n Noop) SendLowStockAlert(ctx context.Context, productName string, quantity int) error {
	n.log("low-stock", "admin")
	return nil
}

func (n Noop) SendDeliveryConfirmation(ctx context.Context, delivery models.Delivery) error {
	n.log("delivery-confirmation", delivery.Email)
	return nil
}

var _ Sender = Noop{}
