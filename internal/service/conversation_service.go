// internal/service/conversation_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chads-social/internal/domain"
	"chads-social/internal/metrics"
	"chads-social/internal/repository"
	"chads-social/internal/util"
)

// History size bounds and message defaults.
const (
	MinHistoryLimit      = 200
	MaxHistoryLimit      = 500
	DefaultMaxBodyLength = 500
)

// ConversationOptions tunes message validation and history paging.
type ConversationOptions struct {
	MaxBodyLength int // characters after trimming
	HistoryLimit  int // clamped to [MinHistoryLimit, MaxHistoryLimit]
}

func (o ConversationOptions) normalized() ConversationOptions {
	if o.MaxBodyLength <= 0 {
		o.MaxBodyLength = DefaultMaxBodyLength
	}
	switch {
	case o.HistoryLimit <= 0:
		o.HistoryLimit = MaxHistoryLimit
	case o.HistoryLimit < MinHistoryLimit:
		o.HistoryLimit = MinHistoryLimit
	case o.HistoryLimit > MaxHistoryLimit:
		o.HistoryLimit = MaxHistoryLimit
	}
	return o
}

// ConversationService defines the inbox: threads, history, sending and unread counts.
type ConversationService interface {
	SendMessage(ctx context.Context, fromID, toID int64, body string) (*domain.Message, error)
	ListThreads(ctx context.Context, viewerID int64) ([]domain.Thread, error)
	GetHistory(ctx context.Context, viewerID, peerID int64) ([]domain.Message, error)
	UnreadTotal(ctx context.Context, viewerID int64) (int64, error)
}

type conversationService struct {
	tx          *Transactor
	dbExecutor  repository.DBExecutor
	messageRepo repository.MessageRepository
	opts        ConversationOptions
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// NewConversationService creates a new instance of ConversationService.
func NewConversationService(
	tx *Transactor,
	dbExecutor repository.DBExecutor,
	messageRepo repository.MessageRepository,
	opts ConversationOptions,
	m *metrics.Metrics,
	logger *slog.Logger,
) ConversationService {
	return &conversationService{
		tx:          tx,
		dbExecutor:  dbExecutor,
		messageRepo: messageRepo,
		opts:        opts.normalized(),
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// SendMessage appends a plain message from fromID to toID.
func (s *conversationService) SendMessage(ctx context.Context, fromID, toID int64, body string) (*domain.Message, error) {
	if err := validatePeer(fromID, toID); err != nil {
		return nil, err
	}
	text, err := domain.NormalizeBody(body, s.opts.MaxBodyLength)
	if err != nil {
		return nil, err
	}

	msg := domain.NewPlainMessage(fromID, toID, text, s.now())
	if err := s.messageRepo.CreateMessage(ctx, s.dbExecutor, msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	s.metrics.MessageSent(string(msg.Kind))
	s.logger.Debug("Message sent", "message_id", msg.ID, "from_id", fromID, "to_id", toID)
	return msg, nil
}

// ListThreads returns the viewer's conversations, most recently active first.
func (s *conversationService) ListThreads(ctx context.Context, viewerID int64) ([]domain.Thread, error) {
	threads, err := s.messageRepo.ListThreads(ctx, s.dbExecutor, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	return threads, nil
}

// GetHistory returns the latest page of the conversation with peerID, oldest
// first, and marks exactly the messages the viewer received in that page as
// read. Anything not returned stays unread.
func (s *conversationService) GetHistory(ctx context.Context, viewerID, peerID int64) ([]domain.Message, error) {
	if err := validatePeer(viewerID, peerID); err != nil {
		return nil, err
	}

	var history []domain.Message
	err := s.tx.WithinTx(ctx, "get history", func(q repository.DBExecutor) error {
		messages, err := s.messageRepo.ListConversation(ctx, q, viewerID, peerID, s.opts.HistoryLimit)
		if err != nil {
			return fmt.Errorf("get history: %w", err)
		}
		var unread []int64
		for _, m := range messages {
			if m.ToID == viewerID && !m.Read {
				unread = append(unread, m.ID)
			}
		}
		if len(unread) > 0 {
			if _, err := s.messageRepo.MarkRead(ctx, q, viewerID, peerID, unread); err != nil {
				return fmt.Errorf("get history: %w", err)
			}
		}
		for i := range messages {
			if messages[i].ToID == viewerID {
				messages[i].Read = true
			}
		}
		history = messages
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// UnreadTotal counts unread messages addressed to the viewer across all threads.
func (s *conversationService) UnreadTotal(ctx context.Context, viewerID int64) (int64, error) {
	unread, err := s.messageRepo.CountUnread(ctx, s.dbExecutor, viewerID)
	if err != nil {
		return 0, fmt.Errorf("unread total: %w", err)
	}
	return unread, nil
}

func validatePeer(selfID, peerID int64) error {
	if peerID <= 0 {
		return fmt.Errorf("%w: peer id must be positive", util.ErrInvalidInput)
	}
	if peerID == selfID {
		return util.ErrSelfMessage
	}
	return nil
}
