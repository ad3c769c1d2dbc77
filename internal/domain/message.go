// internal/domain/message.go
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"chads-social/internal/util"
)

// MessageKind distinguishes user text from ledger-generated system messages.
type MessageKind string

const (
	MessageKindPlain           MessageKind = "plain"
	MessageKindTransferRequest MessageKind = "transfer_request"
	MessageKindTransferSettled MessageKind = "transfer_settled"
)

// ParseMessageKind rejects unknown kinds.
func ParseMessageKind(s string) (MessageKind, error) {
	switch k := MessageKind(s); k {
	case MessageKindPlain, MessageKindTransferRequest, MessageKindTransferSettled:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown message kind %q", util.ErrInvalidInput, s)
	}
}

// Message is one entry of the append-only message log.
type Message struct {
	ID          int64       `db:"id" json:"id"` // BIGSERIAL, strictly increasing
	FromID      int64       `db:"from_id" json:"from_id"`
	ToID        int64       `db:"to_id" json:"to_id"`
	Body        string      `db:"body" json:"body"`
	Kind        MessageKind `db:"kind" json:"kind"`
	TransferRef *int64      `db:"transfer_ref" json:"transfer_ref,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	Read        bool        `db:"read" json:"read"` // Recipient-scoped, only ever set to true
}

// TransferPayload is the JSON body of transfer_request and transfer_settled messages.
type TransferPayload struct {
	Direction Direction       `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
	PayerID   int64           `json:"payer_id,omitempty"`
}

// NormalizeBody trims body and checks it against maxLen characters.
func NormalizeBody(body string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", util.ErrEmptyMessage
	}
	if maxLen > 0 && utf8.RuneCountInString(trimmed) > maxLen {
		return "", fmt.Errorf("%w (max %d characters)", util.ErrMessageTooLong, maxLen)
	}
	return trimmed, nil
}

// NewPlainMessage creates a user-authored message. body must already be normalized.
func NewPlainMessage(fromID, toID int64, body string, now time.Time) *Message {
	return &Message{
		FromID:    fromID,
		ToID:      toID,
		Body:      body,
		Kind:      MessageKindPlain,
		CreatedAt: now.UTC(),
	}
}

// NewTransferRequestMessage creates the message that surfaces a pending transfer
// in the counterparty's inbox. The transfer must already have an id.
func NewTransferRequestMessage(t *Transfer) (*Message, error) {
	body, err := json.Marshal(TransferPayload{Direction: t.Direction, Amount: t.Amount})
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer payload: %w", err)
	}
	ref := t.ID
	return &Message{
		FromID:      t.RequesterID,
		ToID:        t.CounterpartyID,
		Body:        string(body),
		Kind:        MessageKindTransferRequest,
		TransferRef: &ref,
		CreatedAt:   t.CreatedAt,
	}, nil
}

// NewSettlementMessages creates the two acknowledgements written when a transfer
// settles: payer to payee, then payee to payer.
func NewSettlementMessages(t *Transfer, now time.Time) ([]*Message, error) {
	payer, payee := t.Parties()
	body, err := json.Marshal(TransferPayload{Direction: t.Direction, Amount: t.Amount, PayerID: payer})
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer payload: %w", err)
	}
	ref := t.ID
	at := now.UTC()
	return []*Message{
		{FromID: payer, ToID: payee, Body: string(body), Kind: MessageKindTransferSettled, TransferRef: &ref, CreatedAt: at},
		{FromID: payee, ToID: payer, Body: string(body), Kind: MessageKindTransferSettled, TransferRef: &ref, CreatedAt: at},
	}, nil
}

// IsSystem reports whether the ledger generated the message.
func (m *Message) IsSystem() bool {
	return m.Kind != MessageKindPlain
}

// PeerOf returns the other participant from viewerID's point of view.
func (m *Message) PeerOf(viewerID int64) int64 {
	if m.FromID == viewerID {
		return m.ToID
	}
	return m.FromID
}

// Payload decodes the transfer payload of a system message.
func (m *Message) Payload() (*TransferPayload, error) {
	if !m.IsSystem() {
		return nil, fmt.Errorf("%w: message %d carries no transfer payload", util.ErrInvalidInput, m.ID)
	}
	var p TransferPayload
	if err := json.Unmarshal([]byte(m.Body), &p); err != nil {
		return nil, fmt.Errorf("failed to decode transfer payload of message %d: %w", m.ID, err)
	}
	return &p, nil
}

// Text renders the message for viewerID. Plain messages are returned as is;
// system messages are described from the viewer's side.
func (m *Message) Text(viewerID int64) string {
	if !m.IsSystem() {
		return m.Body
	}
	p, err := m.Payload()
	if err != nil {
		return m.Body
	}
	amount := p.Amount.String()

	switch m.Kind {
	case MessageKindTransferRequest:
		mine := m.FromID == viewerID
		switch {
		case p.Direction == DirectionSend && mine:
			return fmt.Sprintf("You offered to send %s chads.", amount)
		case p.Direction == DirectionSend:
			return fmt.Sprintf("Offered to send you %s chads. Accept in the thread to complete.", amount)
		case mine:
			return fmt.Sprintf("You requested %s chads.", amount)
		default:
			return fmt.Sprintf("Requested %s chads from you. Accept to send.", amount)
		}
	case MessageKindTransferSettled:
		if p.PayerID == viewerID {
			return fmt.Sprintf("Transfer accepted: %s chads sent.", amount)
		}
		return fmt.Sprintf("Transfer accepted: %s chads received.", amount)
	}
	return m.Body
}
