// internal/repository/record_repo.go
package repository

import (
	"context"

	"opledger/internal/domain"
)

// RecordRepository defines the interface for operation-record data operations.
// All reads are owner-scoped and exclude soft-deleted rows.
type RecordRepository interface {
	// CreateRecord inserts a new record using the provided DBExecutor.
	CreateRecord(ctx context.Context, q DBExecutor, record *domain.Record) error
	// GetRecordByIDAndUser retrieves a non-deleted record matching both id and owner.
	GetRecordByIDAndUser(ctx context.Context, q DBExecutor, id, userID int64) (*domain.Record, error)
	// ListRecordsByUser retrieves a page of the user's non-deleted records, newest
	// first, together with the total non-deleted count ignoring the page window.
	ListRecordsByUser(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.Record, int64, error)
	// MarkRecordDeleted flips the soft-delete flag on a non-deleted record scoped
	// to (id, owner).
	MarkRecordDeleted(ctx context.Context, q DBExecutor, id, userID int64) error
}
