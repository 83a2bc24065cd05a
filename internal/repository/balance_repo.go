// internal/repository/balance_repo.go
package repository

import (
	"context"

	"opledger/internal/domain"
)

// BalanceRepository defines the interface for balance data operations.
type BalanceRepository interface {
	// CreateBalance adds a new balance row using the provided DBExecutor.
	CreateBalance(ctx context.Context, q DBExecutor, balance *domain.Balance) error
	// GetBalanceByUserID retrieves the balance owned by the given user.
	GetBalanceByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Balance, error)
	// UpdateBalanceAmount sets the amount of the given user's balance row.
	UpdateBalanceAmount(ctx context.Context, q DBExecutor, userID int64, amount float64) error
}
