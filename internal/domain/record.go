// internal/domain/record.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Record represents a single recorded operation against a user's balance.
// Records are append-mostly: after creation only the soft-delete flag changes,
// and "deleted" rows stay persisted but are excluded from all owner-scoped reads.
type Record struct {
	ID                int64           `db:"id" json:"id"`                                // Primary key, BIGSERIAL in DB
	OperationType     string          `db:"operation_type" json:"operationType"`         // Free-form tag, e.g. "deposit"
	Amount            decimal.Decimal `db:"amount" json:"amount"`                        // Operation amount, NUMERIC(20, 4) in DB
	UserBalance       decimal.Decimal `db:"user_balance" json:"userBalance"`             // Balance snapshot at record time
	OperationResponse string          `db:"operation_response" json:"operationResponse"` // Outcome description
	Date              time.Time       `db:"date" json:"date"`                            // Set at insertion, immutable
	UserID            int64           `db:"user_id" json:"userId"`                       // Owning user
	IsDeleted         bool            `db:"is_deleted" json:"isDeleted"`                 // Soft-delete flag
}

// NewRecord creates a new Record instance.
func NewRecord(operationType string, amount, userBalance decimal.Decimal, operationResponse string, userID int64) *Record {
	return &Record{
		OperationType:     operationType,
		Amount:            amount,
		UserBalance:       userBalance,
		OperationResponse: operationResponse,
		Date:              time.Now().UTC(),
		UserID:            userID,
		IsDeleted:         false,
	}
}
