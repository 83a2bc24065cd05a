// internal/service/record_service.go
package service

import (
	"context"
	"fmt"

	"opledger/internal/domain"
	"opledger/internal/repository"
	"opledger/internal/util"
	"opledger/pkg/db"

	"github.com/shopspring/decimal"
)

// CreateRecordInput carries the caller-supplied fields for a new record.
type CreateRecordInput struct {
	OperationType     string
	Amount            decimal.Decimal
	UserBalance       decimal.Decimal
	OperationResponse string
	UserID            int64
}

// RecordService defines the interface for operation-record business logic.
// Reads and deletes are always scoped to the owning user.
type RecordService interface {
	Create(ctx context.Context, input CreateRecordInput) (*domain.Record, error)
	FindOne(ctx context.Context, id, userID int64) (*domain.Record, error)
	FindAll(ctx context.Context, userID int64, page, limit int) ([]domain.Record, int64, error)
	Remove(ctx context.Context, id, userID int64) error
}

// recordService implements the RecordService interface.
type recordService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	recordRepo repository.RecordRepository
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewRecordService creates a new instance of RecordService.
func NewRecordService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	recordRepo repository.RecordRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) RecordService {
	return &recordService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		recordRepo: recordRepo,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

// Create persists a new record with the creation timestamp assigned here and the
// soft-delete flag false, and returns the stored row including its assigned id.
func (s *recordService) Create(ctx context.Context, input CreateRecordInput) (*domain.Record, error) {
	record := domain.NewRecord(
		input.OperationType,
		input.Amount,
		input.UserBalance,
		input.OperationResponse,
		input.UserID,
	)
	if err := s.recordRepo.CreateRecord(ctx, s.dbExecutor, record); err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	return record, nil
}

// FindOne returns the record matching id and owner that has not been soft-deleted.
// Owner mismatch and soft-deleted both collapse to util.ErrNotFound.
func (s *recordService) FindOne(ctx context.Context, id, userID int64) (*domain.Record, error) {
	record, err := s.recordRepo.GetRecordByIDAndUser(ctx, s.dbExecutor, id, userID)
	if err != nil {
		return nil, fmt.Errorf("find record: failed to get record %d for user %d: %w", id, userID, err)
	}
	return record, nil
}

// FindAll returns the page of the user's non-deleted records, newest first, plus
// the total non-deleted count ignoring the page window. page and limit are 1-based
// and assumed validated by the boundary.
func (s *recordService) FindAll(ctx context.Context, userID int64, page, limit int) ([]domain.Record, int64, error) {
	offset := (page - 1) * limit
	records, totalCount, err := s.recordRepo.ListRecordsByUser(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("find records: %w", err)
	}
	return records, totalCount, nil
}

// Remove soft-deletes the record scoped to (id, owner). A record that is absent,
// owned by another user, or already deleted is a silent no-op so the operation
// stays idempotent.
func (s *recordService) Remove(ctx context.Context, id, userID int64) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("remove record: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("remove record: transaction controller does not implement DBExecutor")
	}

	_, err = s.recordRepo.GetRecordByIDAndUser(ctx, txExecutor, id, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("remove record: failed to get record %d for user %d: %w", id, userID, err)
	}

	if err := s.recordRepo.MarkRecordDeleted(ctx, txExecutor, id, userID); err != nil {
		return fmt.Errorf("remove record: failed to soft-delete record %d: %w", id, err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("remove record: failed to commit transaction: %w", err)
	}

	return nil
}
