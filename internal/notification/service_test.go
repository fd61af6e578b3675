// internal/notification/service_test.go

package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrackr/fittrackr-backend/internal/buddies"
)

type fakeContacts struct {
	email string
	phone string
}

func (c *fakeContacts) GetEmail(_ context.Context, _ int64) (string, error) {
	return c.email, nil
}

func (c *fakeContacts) GetPhone(_ context.Context, _ int64) (string, error) {
	return c.phone, nil
}

type sentEmail struct {
	to, subject, body string
}

type recordingEmailSender struct {
	sent chan sentEmail
}

func (r *recordingEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	r.sent <- sentEmail{to: to, subject: subject, body: body}
	return nil
}

type sentSMS struct {
	to, body string
}

type recordingSMSSender struct {
	sent chan sentSMS
}

func (r *recordingSMSSender) SendSMS(_ context.Context, to, body string) error {
	r.sent <- sentSMS{to: to, body: body}
	return nil
}

func requester(nickname string) *buddies.Profile {
	return &buddies.Profile{UserID: 9, Nickname: nickname}
}

func TestBuddyRequestReceivedDeliversEmailAndSMS(t *testing.T) {
	email := &recordingEmailSender{sent: make(chan sentEmail, 1)}
	sms := &recordingSMSSender{sent: make(chan sentSMS, 1)}
	svc := NewService(email, sms, &fakeContacts{email: "target@example.com", phone: "+15550001111"})

	svc.BuddyRequestReceived(context.Background(), 2, requester("alex"))

	select {
	case m := <-email.sent:
		assert.Equal(t, "target@example.com", m.to)
		assert.Equal(t, "New workout buddy request", m.subject)
		assert.Contains(t, m.body, "alex")
	case <-time.After(time.Second):
		t.Fatal("no email delivered")
	}

	select {
	case m := <-sms.sent:
		assert.Equal(t, "+15550001111", m.to)
		assert.Contains(t, m.body, "alex")
	case <-time.After(time.Second):
		t.Fatal("no sms delivered")
	}
}

func TestDeliverSkipsSMSWithoutPhone(t *testing.T) {
	email := &recordingEmailSender{sent: make(chan sentEmail, 1)}
	sms := &recordingSMSSender{sent: make(chan sentSMS, 1)}
	svc := NewService(email, sms, &fakeContacts{email: "target@example.com"})

	svc.BuddyRequestAccepted(context.Background(), 2, requester("sam"))

	select {
	case m := <-email.sent:
		assert.Equal(t, "Buddy request accepted", m.subject)
	case <-time.After(time.Second):
		t.Fatal("no email delivered")
	}

	// The goroutine sends the SMS right after the email, so give it a
	// moment before checking nothing arrived
	select {
	case m := <-sms.sent:
		t.Fatalf("unexpected sms to %s", m.to)
	case <-time.After(50 * time.Millisecond):
	}

	require.Empty(t, sms.sent)
}
