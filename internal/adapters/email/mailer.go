package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"eventhub/internal/domain"
)

// Mail providers.
const (
	ProviderSES  = "ses"
	ProviderNoop = "noop"
)

const (
	sendTimeout = 15 * time.Second
	charset     = "UTF-8"
)

var errEmptyMessage = errors.New("email has neither an html nor a text body")

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// NewMailer returns the Mailer for config.Provider. Unknown providers fall back to the
// noop mailer, which only logs.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch config.Provider {
	case ProviderSES:
		source, err := formatSource(config.FromName, config.FromAddress)
		if err != nil {
			return nil, fmt.Errorf("ses mailer: %w", err)
		}
		if config.SES.InsecureSkipVerify {
			logger.Warn("TLS certificate verification is disabled for SES, use only in development")
		}
		return &sesMailer{
			client: ses.NewFromConfig(newAWSConfig(config.SES)),
			source: source,
			logger: logger,
		}, nil
	case ProviderNoop, "":
		return &noopMailer{logger: logger}, nil
	default:
		logger.Warn("unknown email provider, using noop", "provider", config.Provider)
		return &noopMailer{logger: logger}, nil
	}
}

func newAWSConfig(c SESConfig) aws.Config {
	return aws.Config{
		Region: c.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, ""),
		),
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: c.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		},
	}
}

// formatSource builds the RFC 5322 From value, quoting the display name when needed.
func formatSource(name, address string) (string, error) {
	if address == "" {
		return "", errors.New("from address is required")
	}
	addr, err := mail.ParseAddress(address)
	if err != nil {
		return "", fmt.Errorf("from address: %w", err)
	}
	addr.Name = name
	if name == "" {
		return addr.Address, nil
	}
	return addr.String(), nil
}

// sesAPI is the part of *ses.Client the mailer calls.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type sesMailer struct {
	client sesAPI
	source string
	logger *slog.Logger
}

func content(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String(charset)}
}

func buildSendEmailInput(source string, msg *domain.EmailMessage) *ses.SendEmailInput {
	body := &types.Body{}
	if msg.HTML != "" {
		body.Html = content(msg.HTML)
	}
	if msg.Text != "" {
		body.Text = content(msg.Text)
	}
	return &ses.SendEmailInput{
		Source:      aws.String(source),
		Destination: &types.Destination{ToAddresses: []string{msg.To}},
		Message:     &types.Message{Subject: content(msg.Subject), Body: body},
	}
}

// Send delivers msg through SES. The call outlives a cancelled caller context, bounded by
// sendTimeout, since the booking it confirms is already stored.
func (s *sesMailer) Send(ctx context.Context, msg *domain.EmailMessage) error {
	if msg.HTML == "" && msg.Text == "" {
		return errEmptyMessage
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	result, err := s.client.SendEmail(ctx, buildSendEmailInput(s.source, msg))
	if err != nil {
		return fmt.Errorf("send email via SES: %w", err)
	}
	s.logger.InfoContext(ctx, "email sent via SES", "message_id", aws.ToString(result.MessageId))
	return nil
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(ctx context.Context, msg *domain.EmailMessage) error {
	if msg.HTML == "" && msg.Text == "" {
		return errEmptyMessage
	}
	n.logger.InfoContext(ctx, "email not sent, noop mailer", "to", msg.To, "subject", msg.Subject)
	return nil
}
