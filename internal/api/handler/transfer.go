// internal/api/handler/transfer.go
package handler

import (
	"log/slog"
	"net/http"

	"chads-social/internal/api/types"
	"chads-social/internal/domain"
	"chads-social/internal/service"
)

// TransferHandler handles HTTP requests for the transfer ledger.
type TransferHandler struct {
	base
	service service.LedgerService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(svc service.LedgerService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{base: base{logger: logger}, service: svc}
}

// Create opens a pending transfer with a counterparty.
// POST /transfers
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req types.CreateTransferRequest
	if err := decode(w, r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	if err := domain.ValidateAmount(req.Amount); err != nil {
		h.respondWithError(w, err)
		return
	}
	direction, err := domain.ParseDirection(req.Direction)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	transfer, err := h.service.CreateTransfer(r.Context(), userID, req.CounterpartyID, req.Amount, direction)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, types.CreateTransferResponse{TransferID: transfer.ID})
}

// Decide accepts or declines a pending transfer.
// POST /transfers/{transferID}/decision
func (h *TransferHandler) Decide(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	transferID, err := idParam(r, "transferID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req types.DecisionRequest
	if err := decode(w, r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	transfer, err := h.service.Decide(r.Context(), userID, transferID, *req.Accept)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.DecisionResponse{Status: transfer.Status})
}

// Get returns a transfer to one of its participants.
// GET /transfers/{transferID}
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	transferID, err := idParam(r, "transferID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	transfer, err := h.service.GetTransfer(r.Context(), userID, transferID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, transfer)
}
