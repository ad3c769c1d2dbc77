// internal/service/ledger_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chads-social/internal/domain"
	"chads-social/internal/util"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type ledgerFixture struct {
	svc          *ledgerService
	beginner     *MockDBBeginner
	executor     *MockDBExecutor
	tx           *MockTxController
	accountRepo  *MockAccountRepository
	transferRepo *MockTransferRepository
	messageRepo  *MockMessageRepository
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		beginner:     new(MockDBBeginner),
		executor:     new(MockDBExecutor),
		tx:           new(MockTxController),
		accountRepo:  new(MockAccountRepository),
		transferRepo: new(MockTransferRepository),
		messageRepo:  new(MockMessageRepository),
	}
	svc := NewLedgerService(
		newMockTransactor(f.beginner, f.tx),
		f.executor,
		f.accountRepo,
		f.transferRepo,
		f.messageRepo,
		nil,
		discardLogger(),
	).(*ledgerService)
	svc.now = func() time.Time { return fixedNow }
	f.svc = svc
	return f
}

func (f *ledgerFixture) assertExpectations(t *testing.T) {
	mock.AssertExpectationsForObjects(t, f.beginner, f.executor, f.tx, f.accountRepo, f.transferRepo, f.messageRepo)
}

func pendingTransfer(id, requester, counterparty int64, amount int64, direction domain.Direction) *domain.Transfer {
	return &domain.Transfer{
		ID:             id,
		RequesterID:    requester,
		CounterpartyID: counterparty,
		Amount:         decimal.NewFromInt(amount),
		Direction:      direction,
		Status:         domain.TransferStatusPending,
		CreatedAt:      fixedNow.Add(-time.Hour),
	}
}

func decimalOf(n int64) any {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(n)) })
}

func TestCreateTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newLedgerFixture()
		f.transferRepo.On("CreateTransfer", ctx, f.tx, mock.AnythingOfType("*domain.Transfer")).
			Run(func(args mock.Arguments) { args.Get(2).(*domain.Transfer).ID = 11 }).
			Return(nil).Once()

		var posted *domain.Message
		f.messageRepo.On("CreateMessage", ctx, f.tx, mock.AnythingOfType("*domain.Message")).
			Run(func(args mock.Arguments) { posted = args.Get(2).(*domain.Message) }).
			Return(nil).Once()
		f.tx.On("Commit").Return(nil).Once()
		f.tx.On("Rollback").Return(nil).Maybe()

		transfer, err := f.svc.CreateTransfer(ctx, 1, 2, decimal.NewFromInt(30), domain.DirectionSend)

		require.NoError(t, err)
		assert.Equal(t, int64(11), transfer.ID)
		assert.Equal(t, domain.TransferStatusPending, transfer.Status)

		require.NotNil(t, posted)
		assert.Equal(t, domain.MessageKindTransferRequest, posted.Kind)
		assert.Equal(t, int64(1), posted.FromID)
		assert.Equal(t, int64(2), posted.ToID)
		require.NotNil(t, posted.TransferRef)
		assert.Equal(t, int64(11), *posted.TransferRef)
		assert.JSONEq(t, `{"direction":"send","amount":"30"}`, posted.Body)
		f.assertExpectations(t)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		cases := []struct {
			name         string
			counterparty int64
			amount       decimal.Decimal
			direction    domain.Direction
		}{
			{"SelfTransfer", 1, decimal.NewFromInt(10), domain.DirectionSend},
			{"ZeroAmount", 2, decimal.Zero, domain.DirectionSend},
			{"NegativeAmount", 2, decimal.NewFromInt(-5), domain.DirectionRequest},
			{"FractionalAmount", 2, decimal.RequireFromString("1.5"), domain.DirectionSend},
			{"UnknownDirection", 2, decimal.NewFromInt(10), domain.Direction("steal")},
			{"MissingCounterparty", 0, decimal.NewFromInt(10), domain.DirectionSend},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := newLedgerFixture()

				transfer, err := f.svc.CreateTransfer(ctx, 1, tc.counterparty, tc.amount, tc.direction)

				assert.ErrorIs(t, err, util.ErrInvalidInput)
				assert.Nil(t, transfer)
				f.tx.AssertNotCalled(t, "Commit")
				f.transferRepo.AssertNotCalled(t, "CreateTransfer", mock.Anything, mock.Anything, mock.Anything)
				f.assertExpectations(t)
			})
		}
	})

	t.Run("MessageFailureRollsBack", func(t *testing.T) {
		f := newLedgerFixture()
		f.transferRepo.On("CreateTransfer", ctx, f.tx, mock.AnythingOfType("*domain.Transfer")).Return(nil).Once()
		f.messageRepo.On("CreateMessage", ctx, f.tx, mock.AnythingOfType("*domain.Message")).Return(errors.New("db error")).Once()
		f.tx.On("Rollback").Return(nil).Once()

		transfer, err := f.svc.CreateTransfer(ctx, 1, 2, decimal.NewFromInt(30), domain.DirectionSend)

		assert.ErrorContains(t, err, "failed to post request message")
		assert.Nil(t, transfer)
		f.tx.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})
}

func TestDecide(t *testing.T) {
	ctx := context.Background()

	t.Run("AcceptSendSettles", func(t *testing.T) {
		f := newLedgerFixture()
		transfer := pendingTransfer(11, 1, 2, 30, domain.DirectionSend)

		f.transferRepo.On("GetTransferForUpdate", mock.Anything, f.tx, int64(11)).Return(transfer, nil).Once()
		f.accountRepo.On("EnsureAccounts", mock.Anything, f.tx, []int64{1, 2}).Return(nil).Once()
		f.accountRepo.On("LockAccounts", mock.Anything, f.tx, []int64{1, 2}).Return(map[int64]*domain.Account{
			1: {UserID: 1, Balance: decimal.NewFromInt(100)},
			2: {UserID: 2, Balance: decimal.Zero},
		}, nil).Once()
		f.accountRepo.On("AdjustBalance", mock.Anything, f.tx, int64(1), decimalOf(-30)).Return(nil).Once()
		f.accountRepo.On("AdjustBalance", mock.Anything, f.tx, int64(2), decimalOf(30)).Return(nil).Once()
		f.transferRepo.On("UpdateTransferStatus", mock.Anything, f.tx, transfer).Return(nil).Once()

		var settled []*domain.Message
		f.messageRepo.On("CreateMessage", mock.Anything, f.tx, mock.AnythingOfType("*domain.Message")).
			Run(func(args mock.Arguments) { settled = append(settled, args.Get(2).(*domain.Message)) }).
			Return(nil).Twice()
		f.tx.On("Commit").Return(nil).Once()
		f.tx.On("Rollback").Return(nil).Maybe()

		decided, err := f.svc.Decide(ctx, 2, 11, true)

		require.NoError(t, err)
		assert.Equal(t, domain.TransferStatusAccepted, decided.Status)
		require.NotNil(t, decided.DecidedAt)
		assert.Equal(t, fixedNow, *decided.DecidedAt)

		require.Len(t, settled, 2)
		assert.Equal(t, [2]int64{1, 2}, [2]int64{settled[0].FromID, settled[0].ToID})
		assert.Equal(t, [2]int64{2, 1}, [2]int64{settled[1].FromID, settled[1].ToID})
		for _, msg := range settled {
			assert.Equal(t, domain.MessageKindTransferSettled, msg.Kind)
			assert.Equal(t, int64(11), *msg.TransferRef)
		}
		f.assertExpectations(t)
	})

	t.Run("AcceptRequestDebitsCounterparty", func(t *testing.T) {
		f := newLedgerFixture()
		transfer := pendingTransfer(12, 1, 2, 50, domain.DirectionRequest)

		f.transferRepo.On("GetTransferForUpdate", mock.Anything, f.tx, int64(12)).Return(transfer, nil).Once()
		f.accountRepo.On("EnsureAccounts", mock.Anything, f.tx, []int64{2, 1}).Return(nil).Once()
		f.accountRepo.On("LockAccounts", mock.Anything, f.tx, []int64{2, 1}).Return(map[int64]*domain.Account{
			1: {UserID: 1, Balance: decimal.Zero},
			2: {UserID: 2, Balance: decimal.NewFromInt(50)},
		}, nil).Once()
		f.accountRepo.On("AdjustBalance", mock.Anything, f.tx, int64(2), decimalOf(-50)).Return(nil).Once()
		f.accountRepo.On("AdjustBalance", mock.Anything, f.tx, int64(1), decimalOf(50)).Return(nil).Once()
		f.transferRepo.On("UpdateTransferStatus", mock.Anything, f.tx, transfer).Return(nil).Once()
		f.messageRepo.On("CreateMessage", mock.Anything, f.tx, mock.AnythingOfType("*domain.Message")).Return(nil).Twice()
		f.tx.On("Commit").Return(nil).Once()
		f.tx.On("Rollback").Return(nil).Maybe()

		decided, err := f.svc.Decide(ctx, 2, 12, true)

		require.NoError(t, err)
		assert.Equal(t, domain.TransferStatusAccepted, decided.Status)
		f.assertExpectations(t)
	})

	t.Run("InsufficientFundsStaysPending", func(t *testing.T) {
		f := newLedgerFixture()
		transfer := pendingTransfer(13, 1, 2, 50, domain.DirectionRequest)

		f.transferRepo.On("GetTransferForUpdate", mock.Anything, f.tx, int64(13)).Return(transfer, nil).Once()
		f.accountRepo.On("EnsureAccounts", mock.Anything, f.tx, []int64{2, 1}).Return(nil).Once()
		f.accountRepo.On("LockAccounts", mock.Anything, f.tx, []int64{2, 1}).Return(map[int64]*domain.Account{
			1: {UserID: 1, Balance: decimal.Zero},
			2: {UserID: 2, Balance: decimal.NewFromInt(20)},
		}, nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		decided, err := f.svc.Decide(ctx, 2, 13, true)

		assert.ErrorIs(t, err, util.ErrInsufficientFunds)
		assert.Nil(t, decided)
		assert.Equal(t, domain.TransferStatusPending, transfer.Status)
		f.accountRepo.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.transferRepo.AssertNotCalled(t, "UpdateTransferStatus", mock.Anything, mock.Anything, mock.Anything)
		f.tx.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})

	t.Run("DeclineLeavesBalances", func(t *testing.T) {
		f := newLedgerFixture()
		transfer := pendingTransfer(14, 1, 2, 30, domain.DirectionSend)

		f.transferRepo.On("GetTransferForUpdate", mock.Anything, f.tx, int64(14)).Return(transfer, nil).Once()
		f.transferRepo.On("UpdateTransferStatus", mock.Anything, f.tx, transfer).Return(nil).Once()
		f.tx.On("Commit").Return(nil).Once()
		f.tx.On("Rollback").Return(nil).Maybe()

		decided, err := f.svc.Decide(ctx, 2, 14, false)

		require.NoError(t, err)
		assert.Equal(t, domain.TransferStatusDeclined, decided.Status)
		f.accountRepo.AssertNotCalled(t, "EnsureAccounts", mock.Anything, mock.Anything, mock.Anything)
		f.accountRepo.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.messageRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("ThirdPartyForbidden", func(t *testing.T) {
		f := newLedgerFixture()
		transfer := pendingTransfer(15, 1, 2, 30, domain.DirectionSend)

		f.transferRepo.On("GetTransferForUpdate", mock.Anything, f.tx, int64(15)).Return(transfer, nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.svc.Decide(ctx, 3, 15, true)

		assert.ErrorIs(t, err, util.ErrForbidden)
		assert.Equal(t, domain.TransferStatusPending, transfer.Status)
		f.tx.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})

	t.Run("RequesterCannotDecide", func(t *testing.T) {
		f := newLedgerFixture()
		transfer := pendingTransfer(16, 1, 2, 30, domain.DirectionRequest)

		f.transferRepo.On("GetTransferForUpdate", mock.Anything, f.tx, int64(16)).Return(transfer, nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.svc.Decide(ctx, 1, 16, true)

		assert.ErrorIs(t, err, util.ErrNotTransferDecider)
		f.assertExpectations(t)
	})

	t.Run("AlreadyDecided", func(t *testing.T) {
		f := newLedgerFixture()
		transfer := pendingTransfer(17, 1, 2, 30, domain.DirectionSend)
		require.NoError(t, transfer.Decline(fixedNow))

		f.transferRepo.On("GetTransferForUpdate", mock.Anything, f.tx, int64(17)).Return(transfer, nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.svc.Decide(ctx, 2, 17, true)

		assert.ErrorIs(t, err, util.ErrInvalidState)
		f.assertExpectations(t)
	})

	t.Run("LostStatusRace", func(t *testing.T) {
		f := newLedgerFixture()
		transfer := pendingTransfer(18, 1, 2, 30, domain.DirectionSend)

		f.transferRepo.On("GetTransferForUpdate", mock.Anything, f.tx, int64(18)).Return(transfer, nil).Once()
		f.transferRepo.On("UpdateTransferStatus", mock.Anything, f.tx, transfer).Return(util.ErrTransferDecided).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.svc.Decide(ctx, 2, 18, false)

		assert.ErrorIs(t, err, util.ErrInvalidState)
		f.tx.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newLedgerFixture()
		f.transferRepo.On("GetTransferForUpdate", mock.Anything, f.tx, int64(404)).Return(nil, util.ErrTransferNotFound).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.svc.Decide(ctx, 2, 404, true)

		assert.ErrorIs(t, err, util.ErrNotFound)
		f.assertExpectations(t)
	})

	t.Run("CreditFailureRollsBack", func(t *testing.T) {
		f := newLedgerFixture()
		transfer := pendingTransfer(19, 1, 2, 30, domain.DirectionSend)

		f.transferRepo.On("GetTransferForUpdate", mock.Anything, f.tx, int64(19)).Return(transfer, nil).Once()
		f.accountRepo.On("EnsureAccounts", mock.Anything, f.tx, []int64{1, 2}).Return(nil).Once()
		f.accountRepo.On("LockAccounts", mock.Anything, f.tx, []int64{1, 2}).Return(map[int64]*domain.Account{
			1: {UserID: 1, Balance: decimal.NewFromInt(30)},
			2: {UserID: 2, Balance: decimal.Zero},
		}, nil).Once()
		f.accountRepo.On("AdjustBalance", mock.Anything, f.tx, int64(1), decimalOf(-30)).Return(nil).Once()
		f.accountRepo.On("AdjustBalance", mock.Anything, f.tx, int64(2), decimalOf(30)).Return(errors.New("db error")).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.svc.Decide(ctx, 2, 19, true)

		assert.ErrorContains(t, err, "failed to credit payee")
		f.tx.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})

	t.Run("SurvivesCallerCancellation", func(t *testing.T) {
		f := newLedgerFixture()
		transfer := pendingTransfer(20, 1, 2, 30, domain.DirectionSend)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		f.transferRepo.On("GetTransferForUpdate", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), f.tx, int64(20)).
			Return(transfer, nil).Once()
		f.transferRepo.On("UpdateTransferStatus", mock.Anything, f.tx, transfer).Return(nil).Once()
		f.tx.On("Commit").Return(nil).Once()
		f.tx.On("Rollback").Return(nil).Maybe()

		decided, err := f.svc.Decide(cancelled, 2, 20, false)

		require.NoError(t, err)
		assert.Equal(t, domain.TransferStatusDeclined, decided.Status)
		f.assertExpectations(t)
	})
}

func TestGetTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("Participant", func(t *testing.T) {
		f := newLedgerFixture()
		transfer := pendingTransfer(11, 1, 2, 30, domain.DirectionSend)
		f.transferRepo.On("GetTransferByID", ctx, f.executor, int64(11)).Return(transfer, nil).Twice()

		got, err := f.svc.GetTransfer(ctx, 1, 11)
		require.NoError(t, err)
		assert.Equal(t, transfer, got)

		got, err = f.svc.GetTransfer(ctx, 2, 11)
		require.NoError(t, err)
		assert.Equal(t, transfer, got)
		f.assertExpectations(t)
	})

	t.Run("Outsider", func(t *testing.T) {
		f := newLedgerFixture()
		f.transferRepo.On("GetTransferByID", ctx, f.executor, int64(11)).
			Return(pendingTransfer(11, 1, 2, 30, domain.DirectionSend), nil).Once()

		got, err := f.svc.GetTransfer(ctx, 3, 11)
		assert.ErrorIs(t, err, util.ErrForbidden)
		assert.Nil(t, got)
		f.assertExpectations(t)
	})
}
