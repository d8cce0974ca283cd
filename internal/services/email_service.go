package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	pkglogger "github.com/brinda-08/Quiz/pkg/logger"
)

// OTPPurpose says which flow an emailed code belongs to.
type OTPPurpose string

const (
	OTPPurposeRegistration OTPPurpose = "registration"
	OTPPurposeLogin        OTPPurpose = "login"
)

// EmailService delivers one-time codes.
type EmailService interface {
	SendOTPEmail(ctx context.Context, to, code string, purpose OTPPurpose, expiresAt time.Time) error
}

// sesAPI is the subset of the SES client used here.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// AWSSESEmailService sends emails using AWS SES
type AWSSESEmailService struct {
	client      sesAPI
	fromAddress string
	logger      *slog.Logger
}

// NewAWSSESEmailService loads the default AWS credential chain for region.
func NewAWSSESEmailService(ctx context.Context, region, fromAddress string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		client:      ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

func otpSubject(purpose OTPPurpose) string {
	if purpose == OTPPurposeLogin {
		return "Your Quiz login code"
	}
	return "Verify your Quiz account"
}

func (s *AWSSESEmailService) SendOTPEmail(ctx context.Context, to, code string, purpose OTPPurpose, expiresAt time.Time) error {
	validFor := time.Until(expiresAt).Round(time.Minute)
	if validFor < time.Minute {
		validFor = time.Minute
	}
	minutes := int(validFor.Minutes())

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .code { font-size: 32px; letter-spacing: 8px; font-weight: bold; text-align: center; padding: 16px; background-color: #f8f9fa; border-radius: 4px; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>Use the code below to continue. It expires in %d minutes.</p>
        <div class="code">%s</div>
        <p>If you did not request this code, you can ignore this email.</p>
        <div class="footer">
            <p>This is an automated message. Please do not reply to this email.</p>
        </div>
    </div>
</body>
</html>
`, otpSubject(purpose), minutes, code)

	textBody := fmt.Sprintf(`%s

Your code is: %s

It expires in %d minutes. If you did not request this code, you can ignore this email.
`, otpSubject(purpose), code, minutes)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(otpSubject(purpose))},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
				Text: &types.Content{Data: aws.String(textBody)},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send OTP email via SES",
			slog.String("email", pkglogger.SanitizedEmail(to)),
			slog.String("purpose", string(purpose)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("OTP email sent",
		slog.String("email", pkglogger.SanitizedEmail(to)),
		slog.String("purpose", string(purpose)),
		slog.String("message_id", aws.ToString(result.MessageId)))

	return nil
}
