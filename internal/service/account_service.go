// internal/service/account_service.go
package service

import (
	"context"
	"fmt"

	"chads-social/internal/domain"
	"chads-social/internal/repository"
	"chads-social/internal/util"
)

// AccountService defines onboarding and balance lookups.
type AccountService interface {
	OpenAccount(ctx context.Context, userID int64) (*domain.Account, error)
	GetBalance(ctx context.Context, userID int64) (*domain.Account, error)
}

type accountService struct {
	dbExecutor  repository.DBExecutor
	accountRepo repository.AccountRepository
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(dbExecutor repository.DBExecutor, accountRepo repository.AccountRepository) AccountService {
	return &accountService{dbExecutor: dbExecutor, accountRepo: accountRepo}
}

// OpenAccount creates the user's account if needed and returns it. Calling it
// again is harmless.
func (s *accountService) OpenAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", util.ErrInvalidInput)
	}
	if err := s.accountRepo.CreateAccount(ctx, s.dbExecutor, userID); err != nil {
		return nil, fmt.Errorf("open account: %w", err)
	}
	account, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("open account: %w", err)
	}
	return account, nil
}

// GetBalance returns the user's account. A user who was never referenced has
// an implicit zero balance; nothing is written.
func (s *accountService) GetBalance(ctx context.Context, userID int64) (*domain.Account, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", util.ErrInvalidInput)
	}
	account, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return domain.NewAccount(userID), nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return account, nil
}
