// internal/api/handler/account.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"chads-social/internal/api/types"
	"chads-social/internal/domain"
	"chads-social/internal/service"
)

// AccountHandler handles onboarding and balance requests.
type AccountHandler struct {
	base
	service service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{base: base{logger: logger}, service: svc}
}

// Open creates the caller's account if it does not exist yet.
// POST /me/account
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.service.OpenAccount)
}

// Balance returns the caller's balance.
// GET /me
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.service.GetBalance)
}

func (h *AccountHandler) serve(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID int64) (*domain.Account, error)) {
	userID, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	account, err := op(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.AccountResponse{UserID: account.UserID, Balance: account.Balance})
}
