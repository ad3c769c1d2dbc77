// internal/repository/account_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"chads-social/internal/domain"
)

// AccountRepository defines the interface for account balance operations.
type AccountRepository interface {
	// CreateAccount inserts a zero-balance account; it is a no-op if one exists.
	CreateAccount(ctx context.Context, q DBExecutor, userID int64) error
	// GetAccount retrieves an account by user ID using the provided DBExecutor.
	GetAccount(ctx context.Context, q DBExecutor, userID int64) (*domain.Account, error)
	// EnsureAccounts creates any missing accounts among userIDs with a zero balance.
	EnsureAccounts(ctx context.Context, q DBExecutor, userIDs ...int64) error
	// LockAccounts selects the accounts FOR UPDATE in ascending user ID order.
	// q must be a transaction.
	LockAccounts(ctx context.Context, q DBExecutor, userIDs ...int64) (map[int64]*domain.Account, error)
	// AdjustBalance adds delta (which may be negative) to the account's balance.
	AdjustBalance(ctx context.Context, q DBExecutor, userID int64, delta decimal.Decimal) error
}
