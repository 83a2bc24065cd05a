// internal/repository/postgres/record_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"opledger/internal/domain"
	"opledger/internal/repository"
	"opledger/internal/util"

	"github.com/jmoiron/sqlx"
)

// RecordRepository implements repository.RecordRepository for PostgreSQL.
type RecordRepository struct {
	// Methods receive a DBExecutor directly, so no connection is held here.
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(db *sqlx.DB) repository.RecordRepository {
	return &RecordRepository{}
}

// CreateRecord inserts a new record into the database using the provided DBExecutor.
func (r *RecordRepository) CreateRecord(ctx context.Context, q repository.DBExecutor, record *domain.Record) error {
	query := `INSERT INTO records (operation_type, amount, user_balance, operation_response, date, user_id, is_deleted)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		record.OperationType,
		record.Amount,
		record.UserBalance,
		record.OperationResponse,
		record.Date,
		record.UserID,
		record.IsDeleted,
	).Scan(&record.ID)

	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// GetRecordByIDAndUser retrieves a non-deleted record matching both id and owner.
// Owner mismatch and soft-deleted rows both surface as util.ErrNotFound so record
// ids of other users cannot be probed.
func (r *RecordRepository) GetRecordByIDAndUser(ctx context.Context, q repository.DBExecutor, id, userID int64) (*domain.Record, error) {
	var record domain.Record
	query := `SELECT id, operation_type, amount, user_balance, operation_response, date, user_id, is_deleted
              FROM records
              WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE`
	err := q.GetContext(ctx, &record, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record %d for user %d: %w", id, userID, err)
	}
	return &record, nil
}

// ListRecordsByUser retrieves a paginated list of the user's non-deleted records.
// It performs two queries: one for the data and one for the total count.
func (r *RecordRepository) ListRecordsByUser(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Record, int64, error) {
	records := []domain.Record{}

	query := `
		SELECT id, operation_type, amount, user_balance, operation_response, date, user_id, is_deleted
		FROM records
		WHERE user_id = $1 AND is_deleted = FALSE
		ORDER BY date DESC
		LIMIT $2 OFFSET $3`
	err := q.SelectContext(ctx, &records, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch records for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := `
		SELECT COUNT(*)
		FROM records
		WHERE user_id = $1 AND is_deleted = FALSE`
	err = q.GetContext(ctx, &totalCount, countQuery, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total record count for user %d: %w", userID, err)
	}

	return records, totalCount, nil
}

// MarkRecordDeleted flips the soft-delete flag on a record scoped to (id, owner).
// The row itself is never physically removed.
func (r *RecordRepository) MarkRecordDeleted(ctx context.Context, q repository.DBExecutor, id, userID int64) error {
	query := `UPDATE records SET is_deleted = TRUE WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE`
	result, err := q.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to soft-delete record %d for user %d: %w", id, userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after soft-deleting record %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
