// internal/notification/providers.go

package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// EmailSender delivers a single email
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a single SMS
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// SendGridEmailSender sends email through SendGrid
type SendGridEmailSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewSendGridEmailSender creates a SendGrid-backed email sender
func NewSendGridEmailSender(apiKey, fromEmail, fromName string) *SendGridEmailSender {
	return &SendGridEmailSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *SendGridEmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), body, body)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d", resp.StatusCode)
	}
	return nil
}

// TwilioSMSSender sends SMS through Twilio
type TwilioSMSSender struct {
	client     *twilio.RestClient
	fromNumber string
}

// NewTwilioSMSSender creates a Twilio-backed SMS sender
func NewTwilioSMSSender(accountSID, authToken, fromNumber string) *TwilioSMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSMSSender{client: client, fromNumber: fromNumber}
}

func (s *TwilioSMSSender) SendSMS(ctx context.Context, to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	return nil
}

// MockEmailSender logs instead of sending, for development
type MockEmailSender struct{}

func (MockEmailSender) SendEmail(_ context.Context, to, subject, _ string) error {
	log.Printf("notification: [mock email] to=%s subject=%q", to, subject)
	return nil
}

// MockSMSSender logs instead of sending, for development
type MockSMSSender struct{}

func (MockSMSSender) SendSMS(_ context.Context, to, body string) error {
	log.Printf("notification: [mock sms] to=%s body=%q", to, body)
	return nil
}
