// internal/repository/postgres/account_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"chads-social/internal/domain"
	"chads-social/internal/repository"
	"chads-social/internal/util"
)

// AccountRepository implements repository.AccountRepository for PostgreSQL.
type AccountRepository struct{}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository() repository.AccountRepository {
	return &AccountRepository{}
}

// CreateAccount inserts a zero-balance account unless the user already has one.
func (r *AccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, userID int64) error {
	query := `INSERT INTO accounts (user_id, balance, created_at, updated_at)
              VALUES ($1, 0, $2, $2)
              ON CONFLICT (user_id) DO NOTHING`
	if _, err := q.ExecContext(ctx, query, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to create account for user %d: %w", userID, err)
	}
	return nil
}

// GetAccount retrieves an account by user ID using the provided DBExecutor.
func (r *AccountRepository) GetAccount(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT user_id, balance, created_at, updated_at FROM accounts WHERE user_id = $1`
	err := q.GetContext(ctx, &account, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account for user %d: %w", userID, err)
	}
	return &account, nil
}

// EnsureAccounts creates zero-balance accounts for any of userIDs that lack one.
func (r *AccountRepository) EnsureAccounts(ctx context.Context, q repository.DBExecutor, userIDs ...int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := `INSERT INTO accounts (user_id, balance, created_at, updated_at)
              SELECT id, 0, $2, $2 FROM unnest($1::bigint[]) AS id
              ON CONFLICT (user_id) DO NOTHING`
	if _, err := q.ExecContext(ctx, query, pq.Array(userIDs), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to ensure accounts %v: %w", userIDs, err)
	}
	return nil
}

// LockAccounts locks the given accounts. Rows are locked in ascending user_id
// order so two settlements touching the same pair cannot deadlock.
func (r *AccountRepository) LockAccounts(ctx context.Context, q repository.DBExecutor, userIDs ...int64) (map[int64]*domain.Account, error) {
	accounts := []domain.Account{}
	query := `SELECT user_id, balance, created_at, updated_at
              FROM accounts
              WHERE user_id = ANY($1)
              ORDER BY user_id
              FOR UPDATE`
	if err := q.SelectContext(ctx, &accounts, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("failed to lock accounts %v: %w", userIDs, err)
	}

	locked := make(map[int64]*domain.Account, len(accounts))
	for i := range accounts {
		locked[accounts[i].UserID] = &accounts[i]
	}
	return locked, nil
}

// AdjustBalance adds delta to the account balance using the provided DBExecutor.
func (r *AccountRepository) AdjustBalance(ctx context.Context, q repository.DBExecutor, userID int64, delta decimal.Decimal) error {
	query := `UPDATE accounts SET balance = balance + $1, updated_at = $2 WHERE user_id = $3`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance for user %d: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after adjusting balance for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected when adjusting balance for user %d: %w", userID, util.ErrNotFound)
	}
	return nil
}
