// internal/messaging/repository.go

package messaging

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines messaging data access
type Repository interface {
	GetOrCreateConversation(ctx context.Context, userA, userB int64) (*Conversation, error)
	GetConversationByID(ctx context.Context, id int64) (*Conversation, error)
	ListConversations(ctx context.Context, userID int64) ([]*Conversation, error)
	CreateMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, conversationID int64, before time.Time, limit int) ([]*Message, error)
	MarkRead(ctx context.Context, conversationID, readerID int64, at time.Time) error
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed messaging repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// GetOrCreateConversation normalizes the pair ordering so one row serves
// both directions
func (r *postgresRepository) GetOrCreateConversation(ctx context.Context, userA, userB int64) (*Conversation, error) {
	if userA > userB {
		userA, userB = userB, userA
	}

	query := `
		INSERT INTO conversations (user_a, user_b, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_a, user_b) DO UPDATE SET user_a = EXCLUDED.user_a
		RETURNING id, user_a, user_b, last_message_at, created_at`

	var conv Conversation
	err := r.db.QueryRowxContext(ctx, query, userA, userB).StructScan(&conv)
	if err != nil {
		return nil, fmt.Errorf("get or create conversation: %w", err)
	}
	return &conv, nil
}

func (r *postgresRepository) GetConversationByID(ctx context.Context, id int64) (*Conversation, error) {
	query := `
		SELECT id, user_a, user_b, last_message_at, created_at
		FROM conversations
		WHERE id = $1`

	var conv Conversation
	err := r.db.GetContext(ctx, &conv, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return &conv, nil
}

func (r *postgresRepository) ListConversations(ctx context.Context, userID int64) ([]*Conversation, error) {
	query := `
		SELECT c.id, c.user_a, c.user_b, c.last_message_at, c.created_at,
		       p.nickname AS other_nickname, p.avatar AS other_avatar,
		       (SELECT COUNT(*) FROM messages m
		        WHERE m.conversation_id = c.id
		          AND m.sender_id != $1 AND m.read_at IS NULL) AS unread_count
		FROM conversations c
		JOIN user_profiles p ON p.user_id = CASE WHEN c.user_a = $1 THEN c.user_b ELSE c.user_a END
		WHERE c.user_a = $1 OR c.user_b = $1
		ORDER BY c.last_message_at DESC NULLS LAST`

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*Conversation
	for rows.Next() {
		var conv Conversation
		if err := rows.StructScan(&conv); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, &conv)
	}
	return conversations, rows.Err()
}

func (r *postgresRepository) CreateMessage(ctx context.Context, msg *Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin message tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO messages (conversation_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		msg.ConversationID, msg.SenderID, msg.Content, msg.CreatedAt,
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE conversations SET last_message_at = $2 WHERE id = $1`,
		msg.ConversationID, msg.CreatedAt); err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	return tx.Commit()
}

func (r *postgresRepository) ListMessages(ctx context.Context, conversationID int64, before time.Time, limit int) ([]*Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, content, read_at, created_at
		FROM messages
		WHERE conversation_id = $1 AND created_at < $2
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := r.db.QueryxContext(ctx, query, conversationID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var msg Message
		if err := rows.StructScan(&msg); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

func (r *postgresRepository) MarkRead(ctx context.Context, conversationID, readerID int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE messages SET read_at = $3
		WHERE conversation_id = $1 AND sender_id != $2 AND read_at IS NULL`,
		conversationID, readerID, at)
	if err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return nil
}
