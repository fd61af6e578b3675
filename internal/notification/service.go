// internal/notification/service.go

package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/fittrackr/fittrackr-backend/internal/buddies"
)

// ContactSource resolves a user's delivery addresses. GetPhone returns
// an empty string for users without a phone number on file.
type ContactSource interface {
	GetEmail(ctx context.Context, userID int64) (string, error)
	GetPhone(ctx context.Context, userID int64) (string, error)
}

// Service sends buddy lifecycle notifications. It implements
// buddies.Notifier; delivery is fire-and-forget and never fails the
// calling request.
type Service struct {
	email    EmailSender
	sms      SMSSender
	contacts ContactSource
}

// NewService creates the notification service
func NewService(email EmailSender, sms SMSSender, contacts ContactSource) *Service {
	return &Service{email: email, sms: sms, contacts: contacts}
}

var _ buddies.Notifier = (*Service)(nil)

// BuddyRequestReceived notifies the target of a new buddy request
func (s *Service) BuddyRequestReceived(ctx context.Context, targetID int64, requester *buddies.Profile) {
	subject := "New workout buddy request"
	body := fmt.Sprintf("%s wants to be your workout buddy. Open the app to respond.", requester.Nickname)
	s.deliver(ctx, targetID, subject, body)
}

// BuddyRequestAccepted notifies the requester that their request was accepted
func (s *Service) BuddyRequestAccepted(ctx context.Context, requesterID int64, accepter *buddies.Profile) {
	subject := "Buddy request accepted"
	body := fmt.Sprintf("%s accepted your workout buddy request. Time to plan your first session!", accepter.Nickname)
	s.deliver(ctx, requesterID, subject, body)
}

func (s *Service) deliver(ctx context.Context, userID int64, subject, body string) {
	email, err := s.contacts.GetEmail(ctx, userID)
	if err != nil {
		log.Printf("notification: resolve contact for user %d: %v", userID, err)
		return
	}

	phone, err := s.contacts.GetPhone(ctx, userID)
	if err != nil {
		log.Printf("notification: resolve phone for user %d: %v", userID, err)
		phone = ""
	}

	// Deliver off the request path; context detaches deliberately
	go func() {
		if err := s.email.SendEmail(context.Background(), email, subject, body); err != nil {
			log.Printf("notification: send email to user %d: %v", userID, err)
		}
		if phone == "" {
			return
		}
		if err := s.sms.SendSMS(context.Background(), phone, body); err != nil {
			log.Printf("notification: send sms to user %d: %v", userID, err)
		}
	}()
}
