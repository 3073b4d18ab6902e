package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// Mailer delivers contact-form submissions to the shop owner.
type Mailer interface {
	SendContactForm(ctx context.Context, name, email, message string) error
}

type SESMailer struct {
	client    *sesv2.Client
	sender    string
	recipient string
	logger    *zap.Logger
}

func NewSESClient(ctx context.Context, region string) (*sesv2.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return sesv2.NewFromConfig(awsCfg), nil
}

func NewSESMailer(client *sesv2.Client, sender, recipient string, logger *zap.Logger) *SESMailer {
	return &SESMailer{
		client:    client,
		sender:    sender,
		recipient: recipient,
		logger:    logger,
	}
}

func (m *SESMailer) SendContactForm(ctx context.Context, name, email, message string) error {
	subject := fmt.Sprintf("New Contact Form Submission from %s", name)
	body := fmt.Sprintf("From: %s <%s>\n\n%s", name, email, message)

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{m.recipient},
		},
		ReplyToAddresses: []string{email},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("Contact form email sent",
		zap.String("reply_to", email),
		zap.String("recipient", m.recipient))

	return nil
}
