// internal/domain/transfer.go
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"chads-social/internal/util"
)

// Direction says which way points move once a transfer is accepted.
type Direction string

const (
	// DirectionSend: the requester offers to pay the counterparty.
	DirectionSend Direction = "send"
	// DirectionRequest: the requester asks the counterparty to pay them.
	DirectionRequest Direction = "request"
)

// ParseDirection normalizes a wire value into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case DirectionSend, DirectionRequest:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", util.ErrInvalidDirection, s)
	}
}

// TransferStatus is the lifecycle state of a transfer.
type TransferStatus string

const (
	TransferStatusPending  TransferStatus = "pending"
	TransferStatusAccepted TransferStatus = "accepted"
	TransferStatusDeclined TransferStatus = "declined"
)

// ParseTransferStatus rejects anything outside the three known states.
func ParseTransferStatus(s string) (TransferStatus, error) {
	switch st := TransferStatus(s); st {
	case TransferStatusPending, TransferStatusAccepted, TransferStatusDeclined:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown transfer status %q", util.ErrInvalidInput, s)
	}
}

// IsTerminal reports whether no further transition is possible.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusAccepted || s == TransferStatusDeclined
}

// Transfer represents a request to move points between two accounts.
type Transfer struct {
	ID             int64           `db:"id" json:"id"`                           // Primary key, BIGSERIAL in DB
	RequesterID    int64           `db:"requester_id" json:"requester_id"`       // User who created the transfer
	CounterpartyID int64           `db:"counterparty_id" json:"counterparty_id"` // The other user; always the decider
	Amount         decimal.Decimal `db:"amount" json:"amount"`                   // Positive whole number of points
	Direction      Direction       `db:"direction" json:"direction"`
	Status         TransferStatus  `db:"status" json:"status"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	DecidedAt      *time.Time      `db:"decided_at" json:"decided_at,omitempty"` // Set once, on the terminal transition
}

const (
	// MaxAmountDigits bounds the integer digits of a transfer amount.
	MaxAmountDigits = 18
	// maxAmountScale bounds trailing fractional digits such as "40.000".
	maxAmountScale = 32
)

// ValidateAmount checks that amount is a positive whole number of points with
// at most MaxAmountDigits digits. The size checks only read the exponent and
// the coefficient, so exponent notation like "1e50000000" is rejected without
// being expanded.
func ValidateAmount(amount decimal.Decimal) error {
	exp := int64(amount.Exponent())
	if exp < -maxAmountScale {
		return fmt.Errorf("%w: too many decimal places", util.ErrInvalidAmount)
	}
	if int64(amount.NumDigits())+exp > MaxAmountDigits {
		return fmt.Errorf("%w: at most %d digits", util.ErrInvalidAmount, MaxAmountDigits)
	}
	if !amount.IsPositive() || !amount.IsInteger() {
		return util.ErrInvalidAmount
	}
	return nil
}

// NewTransfer creates a pending transfer after validating its inputs.
func NewTransfer(requesterID, counterpartyID int64, amount decimal.Decimal, direction Direction, now time.Time) (*Transfer, error) {
	if requesterID <= 0 || counterpartyID <= 0 {
		return nil, fmt.Errorf("%w: user ids must be positive", util.ErrInvalidInput)
	}
	if requesterID == counterpartyID {
		return nil, util.ErrSelfTransfer
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	if _, err := ParseDirection(string(direction)); err != nil {
		return nil, err
	}
	return &Transfer{
		RequesterID:    requesterID,
		CounterpartyID: counterpartyID,
		Amount:         amount,
		Direction:      direction,
		Status:         TransferStatusPending,
		CreatedAt:      now.UTC(),
	}, nil
}

// Parties returns the account debited and the account credited on settlement.
func (t *Transfer) Parties() (payer, payee int64) {
	if t.Direction == DirectionRequest {
		return t.CounterpartyID, t.RequesterID
	}
	return t.RequesterID, t.CounterpartyID
}

// Decider is the only user allowed to accept or decline. For both directions it
// is the counterparty: nobody can authorize spending another user's balance.
func (t *Transfer) Decider() int64 {
	return t.CounterpartyID
}

// Involves reports whether userID is one of the two parties.
func (t *Transfer) Involves(userID int64) bool {
	return userID == t.RequesterID || userID == t.CounterpartyID
}

// Authorize checks that actorID may decide the transfer right now.
func (t *Transfer) Authorize(actorID int64) error {
	if t.Status != TransferStatusPending {
		return fmt.Errorf("%w (status %s)", util.ErrTransferDecided, t.Status)
	}
	if actorID != t.Decider() {
		return util.ErrNotTransferDecider
	}
	return nil
}

// Accept moves a pending transfer to accepted.
func (t *Transfer) Accept(now time.Time) error {
	return t.transition(TransferStatusAccepted, now)
}

// Decline moves a pending transfer to declined.
func (t *Transfer) Decline(now time.Time) error {
	return t.transition(TransferStatusDeclined, now)
}

func (t *Transfer) transition(to TransferStatus, now time.Time) error {
	if t.Status != TransferStatusPending {
		return fmt.Errorf("%w (status %s)", util.ErrTransferDecided, t.Status)
	}
	decidedAt := now.UTC()
	t.Status = to
	t.DecidedAt = &decidedAt
	return nil
}
