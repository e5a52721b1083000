package mail

import (
	"baysawaar-server/internal/observability"
	"context"
	"errors"
	"fmt"

	"github.com/resendlabs/resend-go"
)

var ErrMissingAPIKey = errors.New("resend api key is required")

// Message is one transactional email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

type ResendClient struct {
	client *resend.Client
	logger *observability.Logger
}

func NewResendClient(apiKey string, logger *observability.Logger) (*ResendClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client := resend.NewClient(apiKey)
	if client == nil {
		return nil, fmt.Errorf("failed to create Resend client")
	}

	return &ResendClient{
		client: client,
		logger: logger,
	}, nil
}

// SendEmail delivers msg and returns the provider message id.
func (c *ResendClient) SendEmail(ctx context.Context, msg Message) (string, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email_to", Value: msg.To},
		observability.Field{Key: "email_subject", Value: msg.Subject},
	)

	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	res, err := c.client.Emails.Send(params)
	if err != nil {
		c.logger.Error(ctx, "failed to send email", err)
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Info(ctx, "email sent successfully", observability.Field{Key: "email_id", Value: res.Id})
	return res.Id, nil
}
