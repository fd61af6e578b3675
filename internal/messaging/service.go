// internal/messaging/service.go

package messaging

import (
	"context"
	"errors"
	"time"
)

var (
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrNotConversationMember = errors.New("user is not part of this conversation")
	ErrCannotMessageSelf     = errors.New("cannot message yourself")
)

// Service defines messaging business logic
type Service interface {
	SendMessage(ctx context.Context, senderID int64, input *SendMessageInput) (*Message, error)
	ListConversations(ctx context.Context, userID int64) ([]*Conversation, error)
	GetMessages(ctx context.Context, userID, conversationID int64, before *time.Time, limit int) ([]*Message, error)
	MarkConversationRead(ctx context.Context, userID, conversationID int64) error
}

type service struct {
	repo Repository
	hub  *Hub
	now  func() time.Time
}

// NewService creates the messaging service. hub may be nil when realtime
// delivery is disabled; messages are still persisted.
func NewService(repo Repository, hub *Hub) Service {
	return &service{repo: repo, hub: hub, now: time.Now}
}

func (s *service) SendMessage(ctx context.Context, senderID int64, input *SendMessageInput) (*Message, error) {
	if senderID == input.RecipientID {
		return nil, ErrCannotMessageSelf
	}

	conv, err := s.repo.GetOrCreateConversation(ctx, senderID, input.RecipientID)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        input.Content,
		CreatedAt:      s.now(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.SendToUser(input.RecipientID, WSEvent{Type: "message", Payload: msg})
	}
	return msg, nil
}

func (s *service) ListConversations(ctx context.Context, userID int64) ([]*Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

func (s *service) GetMessages(ctx context.Context, userID, conversationID int64, before *time.Time, limit int) ([]*Message, error) {
	conv, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasMember(userID) {
		return nil, ErrNotConversationMember
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	cutoff := s.now().Add(time.Second)
	if before != nil {
		cutoff = *before
	}
	return s.repo.ListMessages(ctx, conversationID, cutoff, limit)
}

func (s *service) MarkConversationRead(ctx context.Context, userID, conversationID int64) error {
	conv, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.HasMember(userID) {
		return ErrNotConversationMember
	}
	return s.repo.MarkRead(ctx, conversationID, userID, s.now())
}
