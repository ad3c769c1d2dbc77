// internal/api/handler/message.go
package handler

import (
	"log/slog"
	"net/http"

	"chads-social/internal/api/types"
	"chads-social/internal/service"
)

// MessageHandler handles HTTP requests for threads and messages.
type MessageHandler struct {
	base
	service service.ConversationService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(svc service.ConversationService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{base: base{logger: logger}, service: svc}
}

// Send posts a plain message to a peer.
// POST /messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req types.SendMessageRequest
	if err := decode(w, r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	msg, err := h.service.SendMessage(r.Context(), userID, req.PeerID, req.Body)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, types.SendMessageResponse{MessageID: msg.ID, CreatedAt: msg.CreatedAt})
}

// Unread returns the caller's total unread count.
// GET /messages/unread
func (h *MessageHandler) Unread(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	unread, err := h.service.UnreadTotal(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.UnreadResponse{Unread: unread})
}

// Threads lists the caller's conversations.
// GET /threads
func (h *MessageHandler) Threads(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	threads, err := h.service.ListThreads(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.NewThreadViews(threads, userID))
}

// History returns the latest page of a conversation and marks it read.
// GET /threads/{peerID}/messages
func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	peerID, err := idParam(r, "peerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	messages, err := h.service.GetHistory(r.Context(), userID, peerID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.NewMessageViews(messages, userID))
}
