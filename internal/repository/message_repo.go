// internal/repository/message_repo.go
package repository

import (
	"context"

	"chads-social/internal/domain"
)

// MessageRepository defines the interface for the append-only message log.
type MessageRepository interface {
	// CreateMessage appends a message and sets its ID.
	CreateMessage(ctx context.Context, q DBExecutor, message *domain.Message) error
	// ListThreads returns one summary per peer of viewerID, most recent first.
	ListThreads(ctx context.Context, q DBExecutor, viewerID int64) ([]domain.Thread, error)
	// ListConversation returns the latest limit messages between the two users, oldest first.
	ListConversation(ctx context.Context, q DBExecutor, viewerID, peerID int64, limit int) ([]domain.Message, error)
	// MarkRead flags the listed peer -> viewer messages as read.
	MarkRead(ctx context.Context, q DBExecutor, viewerID, peerID int64, ids []int64) (int64, error)
	// CountUnread counts all unread messages addressed to viewerID.
	CountUnread(ctx context.Context, q DBExecutor, viewerID int64) (int64, error)
}
