// internal/repository/postgres/message_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"chads-social/internal/domain"
	"chads-social/internal/repository"
)

const messageColumns = `id, from_id, to_id, body, kind, transfer_ref, created_at, read`

// MessageRepository implements repository.MessageRepository for PostgreSQL.
type MessageRepository struct{}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository() repository.MessageRepository {
	return &MessageRepository{}
}

// CreateMessage appends a message using the provided DBExecutor.
func (r *MessageRepository) CreateMessage(ctx context.Context, q repository.DBExecutor, message *domain.Message) error {
	query := `INSERT INTO messages (from_id, to_id, body, kind, transfer_ref, created_at, read)
              VALUES ($1, $2, $3, $4, $5, $6, FALSE) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		message.FromID,
		message.ToID,
		message.Body,
		message.Kind,
		message.TransferRef,
		message.CreatedAt,
	).Scan(&message.ID)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// threadRow is one row of the thread summary query.
type threadRow struct {
	PeerID      int64 `db:"peer_id"`
	UnreadCount int64 `db:"unread_count"`
	domain.Message
}

// ListThreads derives one summary per unordered pair involving viewerID.
// DISTINCT ON keeps the highest id of each pair, the same order GetHistory
// pages by.
func (r *MessageRepository) ListThreads(ctx context.Context, q repository.DBExecutor, viewerID int64) ([]domain.Thread, error) {
	rows := []threadRow{}
	query := `
		WITH last AS (
			SELECT DISTINCT ON (LEAST(from_id, to_id), GREATEST(from_id, to_id))
				` + messageColumns + `,
				CASE WHEN from_id = $1 THEN to_id ELSE from_id END AS peer_id
			FROM messages
			WHERE from_id = $1 OR to_id = $1
			ORDER BY LEAST(from_id, to_id), GREATEST(from_id, to_id), id DESC
		)
		SELECT last.*,
			(SELECT COUNT(*) FROM messages u
			 WHERE u.to_id = $1 AND u.from_id = last.peer_id AND u.read = FALSE) AS unread_count
		FROM last
		ORDER BY last.id DESC`
	if err := q.SelectContext(ctx, &rows, query, viewerID); err != nil {
		return nil, fmt.Errorf("failed to list threads for user %d: %w", viewerID, err)
	}

	threads := make([]domain.Thread, 0, len(rows))
	for _, row := range rows {
		threads = append(threads, domain.Thread{
			PeerID:      row.PeerID,
			LastMessage: row.Message,
			UnreadCount: row.UnreadCount,
		})
	}
	return threads, nil
}

// ListConversation returns the newest limit messages between the two users in
// ascending id order.
func (r *MessageRepository) ListConversation(ctx context.Context, q repository.DBExecutor, viewerID, peerID int64, limit int) ([]domain.Message, error) {
	messages := []domain.Message{}
	query := `
		SELECT ` + messageColumns + ` FROM (
			SELECT ` + messageColumns + `
			FROM messages
			WHERE (from_id = $1 AND to_id = $2) OR (from_id = $2 AND to_id = $1)
			ORDER BY id DESC
			LIMIT $3
		) recent
		ORDER BY id ASC`
	if err := q.SelectContext(ctx, &messages, query, viewerID, peerID, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch messages between %d and %d: %w", viewerID, peerID, err)
	}
	return messages, nil
}

// MarkRead flags the given peer -> viewer messages as read. Ids that belong to
// another pair or direction are left untouched.
func (r *MessageRepository) MarkRead(ctx context.Context, q repository.DBExecutor, viewerID, peerID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE messages SET read = TRUE
              WHERE to_id = $1 AND from_id = $2 AND read = FALSE AND id = ANY($3)`
	result, err := q.ExecContext(ctx, query, viewerID, peerID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages from %d to %d as read: %w", peerID, viewerID, err)
	}
	marked, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected after marking messages read: %w", err)
	}
	return marked, nil
}

// CountUnread counts unread messages addressed to viewerID across all peers.
func (r *MessageRepository) CountUnread(ctx context.Context, q repository.DBExecutor, viewerID int64) (int64, error) {
	var unread int64
	query := `SELECT COUNT(*) FROM messages WHERE to_id = $1 AND read = FALSE`
	if err := q.GetContext(ctx, &unread, query, viewerID); err != nil {
		return 0, fmt.Errorf("failed to count unread messages for user %d: %w", viewerID, err)
	}
	return unread, nil
}
