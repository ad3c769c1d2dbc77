// internal/api/types/response.go
package types

import (
	"time"

	"github.com/shopspring/decimal"

	"chads-social/internal/domain"
)

// CreateTransferRequest is the body of POST /transfers.
type CreateTransferRequest struct {
	CounterpartyID int64           `json:"counterparty_id" validate:"required,gt=0"`
	Amount         decimal.Decimal `json:"amount"`
	Direction      string          `json:"direction" validate:"required,oneof=send request"`
}

type CreateTransferResponse struct {
	TransferID int64 `json:"transfer_id"`
}

// DecisionRequest is the body of POST /transfers/{transferID}/decision.
type DecisionRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

type DecisionResponse struct {
	Status domain.TransferStatus `json:"status"`
}

// SendMessageRequest is the body of POST /messages. Length limits are enforced
// by the service after trimming.
type SendMessageRequest struct {
	PeerID int64  `json:"peer_id" validate:"required,gt=0"`
	Body   string `json:"body" validate:"required"`
}

type SendMessageResponse struct {
	MessageID int64     `json:"message_id"`
	CreatedAt time.Time `json:"created_at"`
}

type UnreadResponse struct {
	Unread int64 `json:"unread"`
}

type AccountResponse struct {
	UserID  int64           `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

// MessageView is a message rendered for one viewer.
type MessageView struct {
	ID          int64              `json:"id"`
	Mine        bool               `json:"mine"`
	Body        string             `json:"body"`
	Kind        domain.MessageKind `json:"kind"`
	Text        string             `json:"text"`
	TransferRef *int64             `json:"transfer_ref,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// NewMessageView renders m from viewerID's side.
func NewMessageView(m domain.Message, viewerID int64) MessageView {
	return MessageView{
		ID:          m.ID,
		Mine:        m.FromID == viewerID,
		Body:        m.Body,
		Kind:        m.Kind,
		Text:        m.Text(viewerID),
		TransferRef: m.TransferRef,
		CreatedAt:   m.CreatedAt,
	}
}

type ThreadView struct {
	PeerID      int64       `json:"peer_id"`
	LastMessage MessageView `json:"last_message"`
	UnreadCount int64       `json:"unread_count"`
}

// NewThreadViews renders the viewer's thread list.
func NewThreadViews(threads []domain.Thread, viewerID int64) []ThreadView {
	views := make([]ThreadView, 0, len(threads))
	for _, t := range threads {
		views = append(views, ThreadView{
			PeerID:      t.PeerID,
			LastMessage: NewMessageView(t.LastMessage, viewerID),
			UnreadCount: t.UnreadCount,
		})
	}
	return views
}

// NewMessageViews renders a conversation page in order.
func NewMessageViews(messages []domain.Message, viewerID int64) []MessageView {
	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, NewMessageView(m, viewerID))
	}
	return views
}
