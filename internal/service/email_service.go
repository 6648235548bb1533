package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. When fromEmail is empty
// the service is created disabled and silently skips every send, so
// local development works without AWS credentials.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail sends a welcome email to new users
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	subject := "Welcome to Pet Hub!"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
	<h1>Welcome to Pet Hub!</h1>
	<p>Hi %s,</p>
	<p>Your account is ready. Browse the species catalog, adopt your first companion
	and check in every day to keep your streak going.</p>
	<p><a href="%s">Open Pet Hub</a></p>
	<p style="font-size: 12px; color: #666;">This is an automated email from Pet Hub. Please do not reply.</p>
</body>
</html>
`, toName, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Your account is ready. Browse the species catalog, adopt your first companion
and check in every day to keep your streak going.

Open Pet Hub: %s

---
This is an automated email from Pet Hub. Please do not reply.
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendAdoptionEmail confirms a new adoption
func (s *EmailService) SendAdoptionEmail(ctx context.Context, toEmail, toName, petName, speciesName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): adoption to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("%s has joined your family!", petName)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
	<h1>Adoption confirmed</h1>
	<p>Hi %s,</p>
	<p>%s the %s is now part of your Pet Hub family. Pets are happiest with a little
	attention every day, so stop by soon.</p>
	<p><a href="%s">Visit your pets</a></p>
	<p style="font-size: 12px; color: #666;">This is an automated email from Pet Hub. Please do not reply.</p>
</body>
</html>
`, toName, petName, speciesName, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

%s the %s is now part of your Pet Hub family. Pets are happiest with a little
attention every day, so stop by soon.

Visit your pets: %s

---
This is an automated email from Pet Hub. Please do not reply.
`, toName, petName, speciesName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendPrescriptionEmail notifies a user that a therapist prescribed a pet to them
func (s *EmailService) SendPrescriptionEmail(ctx context.Context, toEmail, toName, therapistName, petName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): prescription to %s", toEmail)
		return nil
	}

	subject := "A companion has been prescribed for you"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
	<h1>New companion</h1>
	<p>Hi %s,</p>
	<p>%s has prescribed %s as a therapeutic companion for you. You will find them
	waiting in your pet list.</p>
	<p><a href="%s">Meet your companion</a></p>
	<p style="font-size: 12px; color: #666;">This is an automated email from Pet Hub. Please do not reply.</p>
</body>
</html>
`, toName, therapistName, petName, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

%s has prescribed %s as a therapeutic companion for you. You will find them
waiting in your pet list.

Meet your companion: %s

---
This is an automated email from Pet Hub. Please do not reply.
`, toName, therapistName, petName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message id: %s", *result.MessageId)
	}
	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
