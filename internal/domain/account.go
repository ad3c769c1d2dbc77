// internal/domain/account.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // Arbitrary precision so large balances never overflow
)

// Account holds a user's point balance.
type Account struct {
	UserID    int64           `db:"user_id" json:"user_id"`       // Externally issued identity, primary key
	Balance   decimal.Decimal `db:"balance" json:"balance"`       // Whole points, NUMERIC in DB
	CreatedAt time.Time       `db:"created_at" json:"created_at"` // Timestamp of creation
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"` // Timestamp of last balance change
}

// NewAccount creates a new Account instance with a zero balance.
func NewAccount(userID int64) *Account {
	now := time.Now().UTC()
	return &Account{
		UserID:    userID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanPay reports whether the balance covers amount.
func (a *Account) CanPay(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
