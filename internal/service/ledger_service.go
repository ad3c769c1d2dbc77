// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"chads-social/internal/domain"
	"chads-social/internal/metrics"
	"chads-social/internal/repository"
	"chads-social/internal/util"
)

// LedgerService defines the transfer lifecycle: create, decide, inspect.
type LedgerService interface {
	CreateTransfer(ctx context.Context, requesterID, counterpartyID int64, amount decimal.Decimal, direction domain.Direction) (*domain.Transfer, error)
	Decide(ctx context.Context, actorID, transferID int64, accept bool) (*domain.Transfer, error)
	GetTransfer(ctx context.Context, viewerID, transferID int64) (*domain.Transfer, error)
}

type ledgerService struct {
	tx           *Transactor
	dbExecutor   repository.DBExecutor // For non-transactional reads
	accountRepo  repository.AccountRepository
	transferRepo repository.TransferRepository
	messageRepo  repository.MessageRepository
	metrics      *metrics.Metrics
	logger       *slog.Logger
	now          func() time.Time
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	tx *Transactor,
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	transferRepo repository.TransferRepository,
	messageRepo repository.MessageRepository,
	m *metrics.Metrics,
	logger *slog.Logger,
) LedgerService {
	return &ledgerService{
		tx:           tx,
		dbExecutor:   dbExecutor,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		messageRepo:  messageRepo,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateTransfer records a pending transfer and posts the matching
// transfer_request message to the counterparty, atomically.
func (s *ledgerService) CreateTransfer(ctx context.Context, requesterID, counterpartyID int64, amount decimal.Decimal, direction domain.Direction) (*domain.Transfer, error) {
	transfer, err := domain.NewTransfer(requesterID, counterpartyID, amount, direction, s.now())
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, "create transfer", func(q repository.DBExecutor) error {
		if err := s.transferRepo.CreateTransfer(ctx, q, transfer); err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}
		msg, err := domain.NewTransferRequestMessage(transfer)
		if err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}
		if err := s.messageRepo.CreateMessage(ctx, q, msg); err != nil {
			return fmt.Errorf("create transfer: failed to post request message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TransferCreated(string(transfer.Direction))
	s.metrics.MessageSent(string(domain.MessageKindTransferRequest))
	s.logger.Info("Transfer created",
		"transfer_id", transfer.ID,
		"requester_id", requesterID,
		"counterparty_id", counterpartyID,
		"direction", transfer.Direction,
		"amount", transfer.Amount.String())
	return transfer, nil
}

// Decide accepts or declines a pending transfer on behalf of actorID. Accepting
// settles balances and posts both settlement messages in the same transaction.
// The work runs on a context detached from the caller's cancellation so a
// dropped request cannot interrupt a settlement half way.
func (s *ledgerService) Decide(ctx context.Context, actorID, transferID int64, accept bool) (*domain.Transfer, error) {
	if transferID <= 0 {
		return nil, fmt.Errorf("%w: transfer id must be positive", util.ErrInvalidInput)
	}
	ctx = context.WithoutCancel(ctx)

	var decided *domain.Transfer
	err := s.tx.WithinTx(ctx, "decide transfer", func(q repository.DBExecutor) error {
		transfer, err := s.transferRepo.GetTransferForUpdate(ctx, q, transferID)
		if err != nil {
			return err
		}
		if err := transfer.Authorize(actorID); err != nil {
			return err
		}

		if accept {
			err = s.settle(ctx, q, transfer)
		} else {
			err = s.decline(ctx, q, transfer)
		}
		if err != nil {
			return err
		}
		decided = transfer
		return nil
	})
	if err != nil {
		s.metrics.TransferDecision(decisionFailureOutcome(err))
		return nil, err
	}

	if decided.Status == domain.TransferStatusAccepted {
		s.metrics.TransferDecision(metrics.OutcomeAccepted)
		s.metrics.TransferSettled(decided.Amount)
		for i := 0; i < 2; i++ {
			s.metrics.MessageSent(string(domain.MessageKindTransferSettled))
		}
	} else {
		s.metrics.TransferDecision(metrics.OutcomeDeclined)
	}
	s.logger.Info("Transfer decided",
		"transfer_id", decided.ID,
		"actor_id", actorID,
		"status", decided.Status,
		"amount", decided.Amount.String())
	return decided, nil
}

func (s *ledgerService) decline(ctx context.Context, q repository.DBExecutor, transfer *domain.Transfer) error {
	if err := transfer.Decline(s.now()); err != nil {
		return err
	}
	if err := s.transferRepo.UpdateTransferStatus(ctx, q, transfer); err != nil {
		return fmt.Errorf("decline transfer %d: %w", transfer.ID, err)
	}
	return nil
}

func (s *ledgerService) settle(ctx context.Context, q repository.DBExecutor, transfer *domain.Transfer) error {
	payer, payee := transfer.Parties()

	if err := s.accountRepo.EnsureAccounts(ctx, q, payer, payee); err != nil {
		return fmt.Errorf("settle transfer %d: %w", transfer.ID, err)
	}
	accounts, err := s.accountRepo.LockAccounts(ctx, q, payer, payee)
	if err != nil {
		return fmt.Errorf("settle transfer %d: %w", transfer.ID, err)
	}
	payerAccount, ok := accounts[payer]
	if !ok {
		return fmt.Errorf("settle transfer %d: account %d missing after ensure: %w", transfer.ID, payer, util.ErrNotFound)
	}
	if _, ok := accounts[payee]; !ok {
		return fmt.Errorf("settle transfer %d: account %d missing after ensure: %w", transfer.ID, payee, util.ErrNotFound)
	}
	if !payerAccount.CanPay(transfer.Amount) {
		return util.ErrInsufficientFunds
	}

	if err := s.accountRepo.AdjustBalance(ctx, q, payer, transfer.Amount.Neg()); err != nil {
		return fmt.Errorf("settle transfer %d: failed to debit payer: %w", transfer.ID, err)
	}
	if err := s.accountRepo.AdjustBalance(ctx, q, payee, transfer.Amount); err != nil {
		return fmt.Errorf("settle transfer %d: failed to credit payee: %w", transfer.ID, err)
	}

	now := s.now()
	if err := transfer.Accept(now); err != nil {
		return err
	}
	if err := s.transferRepo.UpdateTransferStatus(ctx, q, transfer); err != nil {
		return fmt.Errorf("settle transfer %d: %w", transfer.ID, err)
	}

	messages, err := domain.NewSettlementMessages(transfer, now)
	if err != nil {
		return fmt.Errorf("settle transfer %d: %w", transfer.ID, err)
	}
	for _, msg := range messages {
		if err := s.messageRepo.CreateMessage(ctx, q, msg); err != nil {
			return fmt.Errorf("settle transfer %d: failed to post settlement message: %w", transfer.ID, err)
		}
	}
	return nil
}

// GetTransfer returns a transfer to one of its two participants.
func (s *ledgerService) GetTransfer(ctx context.Context, viewerID, transferID int64) (*domain.Transfer, error) {
	transfer, err := s.transferRepo.GetTransferByID(ctx, s.dbExecutor, transferID)
	if err != nil {
		return nil, err
	}
	if !transfer.Involves(viewerID) {
		return nil, fmt.Errorf("%w: not a participant of transfer %d", util.ErrForbidden, transferID)
	}
	return transfer, nil
}

func decisionFailureOutcome(err error) string {
	if util.IsError(err, util.ErrInsufficientFunds) {
		return metrics.OutcomeInsufficientFunds
	}
	return metrics.OutcomeRejected
}
