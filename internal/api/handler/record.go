// internal/api/handler/record.go
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"opledger/internal/api/types"
	"opledger/internal/domain"
	"opledger/internal/service"
	"opledger/internal/util"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100 // caller-controlled limits are clamped to keep scans bounded
)

// RecordHandler handles HTTP requests related to operation records.
type RecordHandler struct {
	service service.RecordService
	logger  *slog.Logger
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(svc service.RecordService, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateRecordRequest represents the request body for creating a record.
type CreateRecordRequest struct {
	OperationType     *string          `json:"operationType"`
	Amount            *decimal.Decimal `json:"amount"`
	UserBalance       *decimal.Decimal `json:"userBalance"`
	OperationResponse *string          `json:"operationResponse"`
	UserID            *int64           `json:"userId"`
}

// Validate checks the request shape and returns a util.ErrInvalidInput-wrapped
// error naming the first offending field.
func (r *CreateRecordRequest) Validate() error {
	if r.OperationType == nil || *r.OperationType == "" {
		return fmt.Errorf("%w: operationType is required", util.ErrInvalidInput)
	}
	if r.Amount == nil {
		return fmt.Errorf("%w: amount is required", util.ErrInvalidInput)
	}
	if r.UserBalance == nil {
		return fmt.Errorf("%w: userBalance is required", util.ErrInvalidInput)
	}
	if r.OperationResponse == nil || *r.OperationResponse == "" {
		return fmt.Errorf("%w: operationResponse is required", util.ErrInvalidInput)
	}
	if r.UserID == nil {
		return fmt.Errorf("%w: userId is required", util.ErrInvalidInput)
	}
	return nil
}

// Create handles the create record request.
// POST /api/v1/records
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, fmt.Errorf("%w: malformed JSON body", util.ErrInvalidInput))
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	// The owner is pinned from the resolved identity. The auth gate already
	// rejects a mismatching body userId, so this changes nothing for well-formed
	// callers but keeps persistence independent of middleware ordering.
	record, err := h.service.Create(r.Context(), service.CreateRecordInput{
		OperationType:     *req.OperationType,
		Amount:            *req.Amount,
		UserBalance:       *req.UserBalance,
		OperationResponse: *req.OperationResponse,
		UserID:            ident.ID,
	})
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, record)
}

// FindOne handles the get single record request.
// GET /api/v1/records/{recordID}
func (h *RecordHandler) FindOne(w http.ResponseWriter, r *http.Request) {
	ident, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	recordID, err := strconv.ParseInt(chi.URLParam(r, "recordID"), 10, 64)
	if err != nil {
		respondWithError(h.logger, w, fmt.Errorf("%w: record id must be an integer", util.ErrInvalidInput))
		return
	}

	record, err := h.service.FindOne(r.Context(), recordID, ident.ID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, record)
}

// FindAll handles the paginated record list request.
// GET /api/v1/records?page=1&limit=10
func (h *RecordHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	ident, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	records, count, err := h.service.FindAll(r.Context(), ident.ID, page, limit)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, types.ListResponse[domain.Record]{
		Data:  records,
		Count: count,
	})
}

// Remove handles the soft-delete record request. The response is an empty success
// whether or not the record existed.
// DELETE /api/v1/records/{recordID}
func (h *RecordHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ident, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	recordID, err := strconv.ParseInt(chi.URLParam(r, "recordID"), 10, 64)
	if err != nil {
		respondWithError(h.logger, w, fmt.Errorf("%w: record id must be an integer", util.ErrInvalidInput))
		return
	}

	if err := h.service.Remove(r.Context(), recordID, ident.ID); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
