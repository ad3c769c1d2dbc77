// internal/repository/transfer_repo.go
package repository

import (
	"context"

	"chads-social/internal/domain"
)

// TransferRepository defines the interface for transfer data operations.
type TransferRepository interface {
	// CreateTransfer inserts a new transfer and sets its ID.
	CreateTransfer(ctx context.Context, q DBExecutor, transfer *domain.Transfer) error
	// GetTransferByID retrieves a transfer without locking it.
	GetTransferByID(ctx context.Context, q DBExecutor, id int64) (*domain.Transfer, error)
	// GetTransferForUpdate retrieves a transfer and holds a row lock until q ends.
	GetTransferForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Transfer, error)
	// UpdateTransferStatus persists a terminal transition. It only applies to a
	// transfer that is still pending in the database.
	UpdateTransferStatus(ctx context.Context, q DBExecutor, transfer *domain.Transfer) error
}
