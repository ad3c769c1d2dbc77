// internal/api/handler/mocks_test.go
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"chads-social/internal/domain"
	"chads-social/internal/identity"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateTransfer(ctx context.Context, requesterID, counterpartyID int64, amount decimal.Decimal, direction domain.Direction) (*domain.Transfer, error) {
	args := m.Called(ctx, requesterID, counterpartyID, amount, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockLedgerService) Decide(ctx context.Context, actorID, transferID int64, accept bool) (*domain.Transfer, error) {
	args := m.Called(ctx, actorID, transferID, accept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockLedgerService) GetTransfer(ctx context.Context, viewerID, transferID int64) (*domain.Transfer, error) {
	args := m.Called(ctx, viewerID, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

type MockConversationService struct {
	mock.Mock
}

func (m *MockConversationService) SendMessage(ctx context.Context, fromID, toID int64, body string) (*domain.Message, error) {
	args := m.Called(ctx, fromID, toID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockConversationService) ListThreads(ctx context.Context, viewerID int64) ([]domain.Thread, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Thread), args.Error(1)
}

func (m *MockConversationService) GetHistory(ctx context.Context, viewerID, peerID int64) ([]domain.Message, error) {
	args := m.Called(ctx, viewerID, peerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockConversationService) UnreadTotal(ctx context.Context, viewerID int64) (int64, error) {
	args := m.Called(ctx, viewerID)
	return args.Get(0).(int64), args.Error(1)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) OpenAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetBalance(ctx context.Context, userID int64) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// serve routes one request through pattern as userID (0 means anonymous).
func serve(method, pattern, target, body string, userID int64, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req = req.WithContext(identity.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
