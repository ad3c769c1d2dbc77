// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"chads-social/internal/domain"
	"chads-social/internal/repository"
	"chads-social/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController. It embeds
// MockDBExecutor so it also satisfies repository.DBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockAccountRepository is a mock implementation of repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, userID int64) error {
	args := m.Called(ctx, q, userID)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAccount(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Account, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) EnsureAccounts(ctx context.Context, q repository.DBExecutor, userIDs ...int64) error {
	args := m.Called(ctx, q, userIDs)
	return args.Error(0)
}

func (m *MockAccountRepository) LockAccounts(ctx context.Context, q repository.DBExecutor, userIDs ...int64) (map[int64]*domain.Account, error) {
	args := m.Called(ctx, q, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) AdjustBalance(ctx context.Context, q repository.DBExecutor, userID int64, delta decimal.Decimal) error {
	args := m.Called(ctx, q, userID, delta)
	return args.Error(0)
}

// MockTransferRepository is a mock implementation of repository.TransferRepository.
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) CreateTransfer(ctx context.Context, q repository.DBExecutor, transfer *domain.Transfer) error {
	args := m.Called(ctx, q, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) GetTransferByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Transfer, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) GetTransferForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Transfer, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) UpdateTransferStatus(ctx context.Context, q repository.DBExecutor, transfer *domain.Transfer) error {
	args := m.Called(ctx, q, transfer)
	return args.Error(0)
}

// MockMessageRepository is a mock implementation of repository.MessageRepository.
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) CreateMessage(ctx context.Context, q repository.DBExecutor, message *domain.Message) error {
	args := m.Called(ctx, q, message)
	return args.Error(0)
}

func (m *MockMessageRepository) ListThreads(ctx context.Context, q repository.DBExecutor, viewerID int64) ([]domain.Thread, error) {
	args := m.Called(ctx, q, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Thread), args.Error(1)
}

func (m *MockMessageRepository) ListConversation(ctx context.Context, q repository.DBExecutor, viewerID, peerID int64, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, q, viewerID, peerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, q repository.DBExecutor, viewerID, peerID int64, ids []int64) (int64, error) {
	args := m.Called(ctx, q, viewerID, peerID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) CountUnread(ctx context.Context, q repository.DBExecutor, viewerID int64) (int64, error) {
	args := m.Called(ctx, q, viewerID)
	return args.Get(0).(int64), args.Error(1)
}

// newMockTransactor wires a Transactor whose transactions are ctrl.
func newMockTransactor(beginner *MockDBBeginner, ctrl *MockTxController) *Transactor {
	return NewTransactor(
		beginner,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return ctrl, nil
		},
		func(tx db.TxController) error {
			return ctrl.Commit()
		},
		func(tx db.TxController) {
			_ = ctrl.Rollback()
		},
	)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
