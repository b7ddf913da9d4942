// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"
	"html"
	"os"

	"github.com/foliostack/foliostack-go/internal/domain/entities/inbox"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendContactNotification(to string, msg inbox.Message) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	fromEmail := os.Getenv("CONTACT_EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "noreply@foliostack.dev"
	}

	fromName := os.Getenv("CONTACT_EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "FolioStack"
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// SendContactNotification composes and sends the new-contact-message email.
func (c *ResendClient) SendContactNotification(to string, msg inbox.Message) error {
	subject := fmt.Sprintf("New portfolio message from %s", msg.Name)

	htmlContent := fmt.Sprintf(`
		<h2>New contact message</h2>
		<p><strong>From:</strong> %s &lt;%s&gt;</p>
		<p><strong>Subject:</strong> %s</p>
		<p>%s</p>
		<p style="color:#888;font-size:12px">Sent %s</p>`,
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		html.EscapeString(msg.Subject),
		html.EscapeString(msg.Content),
		msg.CreatedAt.Format("2006-01-02 15:04 MST"))

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{to},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send contact notification via Resend: %w", err)
	}

	return nil
}
