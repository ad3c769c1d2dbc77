// internal/repository/postgres/transfer_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chads-social/internal/domain"
	"chads-social/internal/repository"
	"chads-social/internal/util"
)

const transferColumns = `id, requester_id, counterparty_id, amount, direction, status, created_at, decided_at`

// TransferRepository implements repository.TransferRepository for PostgreSQL.
type TransferRepository struct{}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository() repository.TransferRepository {
	return &TransferRepository{}
}

// CreateTransfer inserts a new transfer record using the provided DBExecutor.
func (r *TransferRepository) CreateTransfer(ctx context.Context, q repository.DBExecutor, transfer *domain.Transfer) error {
	query := `INSERT INTO transfers (requester_id, counterparty_id, amount, direction, status, created_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transfer.RequesterID,
		transfer.CounterpartyID,
		transfer.Amount,
		transfer.Direction,
		transfer.Status,
		transfer.CreatedAt,
	).Scan(&transfer.ID)

	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

// GetTransferByID retrieves a transfer by its ID.
func (r *TransferRepository) GetTransferByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Transfer, error) {
	return r.get(ctx, q, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id)
}

// GetTransferForUpdate retrieves a transfer and locks its row for the rest of
// the enclosing transaction.
func (r *TransferRepository) GetTransferForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Transfer, error) {
	return r.get(ctx, q, `SELECT `+transferColumns+` FROM transfers WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransferRepository) get(ctx context.Context, q repository.DBExecutor, query string, id int64) (*domain.Transfer, error) {
	var transfer domain.Transfer
	if err := q.GetContext(ctx, &transfer, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrTransferNotFound
		}
		return nil, fmt.Errorf("failed to get transfer by ID %d: %w", id, err)
	}
	if _, err := domain.ParseTransferStatus(string(transfer.Status)); err != nil {
		return nil, fmt.Errorf("transfer %d has corrupt status: %w", id, err)
	}
	return &transfer, nil
}

// UpdateTransferStatus writes the transfer's terminal status. The update only
// matches a row that is still pending, so a second decision can never overwrite
// the first.
func (r *TransferRepository) UpdateTransferStatus(ctx context.Context, q repository.DBExecutor, transfer *domain.Transfer) error {
	query := `UPDATE transfers SET status = $1, decided_at = $2 WHERE id = $3 AND status = $4`
	result, err := q.ExecContext(ctx, query, transfer.Status, transfer.DecidedAt, transfer.ID, domain.TransferStatusPending)
	if err != nil {
		return fmt.Errorf("failed to update status of transfer %d: %w", transfer.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating transfer %d: %w", transfer.ID, err)
	}
	if rowsAffected != 1 {
		return util.ErrTransferDecided
	}
	return nil
}
