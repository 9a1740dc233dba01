package service

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/ellas-cupcakery/storefront/internal/domain"
)

// SMTPConfig holds outbound email settings. An empty Host switches the
// notifier into mock mode where emails are only logged.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// EmailNotifier implements domain.Notifier over SMTP
type EmailNotifier struct {
	config SMTPConfig
	logger *zap.Logger
}

// NewEmailNotifier creates a new EmailNotifier
func NewEmailNotifier(config SMTPConfig, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		config: config,
		logger: logger,
	}
}

// NotifyStatusChange emails the customer about the new status of their order
func (n *EmailNotifier) NotifyStatusChange(ctx context.Context, customer *domain.Customer, orderID string, status domain.OrderStatus) error {
	if customer.Email == "" {
		n.logger.Debug("status notification skipped: customer has no email",
			zap.String("order_id", orderID),
			zap.String("customer_id", customer.ID))
		return nil
	}

	subject := fmt.Sprintf("Update on your Ella's Cupcakery order %s", orderID)
	body := fmt.Sprintf("Hi %s,\r\n\r\nYour order %s is now: %s.\r\n\r\nThank you for choosing Ella's Cupcakery!\r\n",
		customer.Name, orderID, status)

	if n.config.Host == "" {
		n.logger.Info("mock email sent",
			zap.String("to", customer.Email),
			zap.String("subject", subject),
			zap.String("order_id", orderID),
			zap.String("status", string(status)))
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.config.From, customer.Email, subject, body)

	addr := fmt.Sprintf("%s:%d", n.config.Host, n.config.Port)
	var auth smtp.Auth
	if n.config.Username != "" {
		auth = smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
	}

	if err := smtp.SendMail(addr, auth, n.config.From, []string{customer.Email}, []byte(msg)); err != nil {
		return fmt.Errorf("email notifier: failed to send to %q: %w", customer.Email, err)
	}

	n.logger.Info("status email sent",
		zap.String("to", customer.Email),
		zap.String("order_id", orderID),
		zap.String("status", string(status)))
	return nil
}
