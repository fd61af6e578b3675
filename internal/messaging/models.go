// internal/messaging/models.go

package messaging

import "time"

// Conversation is a direct-message thread between two users
type Conversation struct {
	ID            int64      `json:"id" db:"id"`
	UserA         int64      `json:"user_a" db:"user_a"`
	UserB         int64      `json:"user_b" db:"user_b"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty" db:"last_message_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`

	// Joined fields
	OtherNickname string  `json:"other_nickname,omitempty" db:"other_nickname"`
	OtherAvatar   *string `json:"other_avatar,omitempty" db:"other_avatar"`
	UnreadCount   int     `json:"unread_count" db:"unread_count"`
}

// OtherMemberID returns the counterpart of userID in the thread
func (c *Conversation) OtherMemberID(userID int64) int64 {
	if c.UserA == userID {
		return c.UserB
	}
	return c.UserA
}

// HasMember reports whether userID belongs to the thread
func (c *Conversation) HasMember(userID int64) bool {
	return c.UserA == userID || c.UserB == userID
}

// Message is a single direct message
type Message struct {
	ID             int64      `json:"id" db:"id"`
	ConversationID int64      `json:"conversation_id" db:"conversation_id"`
	SenderID       int64      `json:"sender_id" db:"sender_id"`
	Content        string     `json:"content" db:"content"`
	ReadAt         *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// SendMessageInput is the message creation payload
type SendMessageInput struct {
	RecipientID int64  `json:"recipient_id" validate:"required,gt=0"`
	Content     string `json:"content" validate:"required,min=1,max=2000"`
}

// WSEvent is the frame pushed to connected websocket clients
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
