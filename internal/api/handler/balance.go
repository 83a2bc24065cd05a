// internal/api/handler/balance.go
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"opledger/internal/domain"
	"opledger/internal/service"
	"opledger/internal/util"
)

// BalanceHandler handles HTTP requests related to the caller's balance.
type BalanceHandler struct {
	service service.BalanceService
	logger  *slog.Logger
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(svc service.BalanceService, logger *slog.Logger) *BalanceHandler {
	return &BalanceHandler{
		service: svc,
		logger:  logger,
	}
}

// UpdateBalanceRequest represents the request body for updating a balance.
type UpdateBalanceRequest struct {
	Amount *float64 `json:"amount"`
}

// Validate checks the request shape and returns a util.ErrInvalidInput-wrapped
// error naming the offending field.
func (r *UpdateBalanceRequest) Validate() error {
	if r.Amount == nil {
		return fmt.Errorf("%w: amount is required", util.ErrInvalidInput)
	}
	return nil
}

// GetBalance handles the get balance request.
// GET /api/v1/balance
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	ident, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	balance, err := h.service.GetBalance(r.Context(), ident.ID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, balance)
}

// UpdateBalance handles the update balance request.
// PATCH /api/v1/balance
func (h *BalanceHandler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	ident, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	var req UpdateBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, fmt.Errorf("%w: malformed JSON body", util.ErrInvalidInput))
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	balance, err := h.service.UpdateBalance(r.Context(), ident.ID, *req.Amount)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, balance)
}
