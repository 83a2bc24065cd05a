// internal/repository/postgres/balance_pg.go
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

// BalanceRepository implements repository.BalanceRepository for PostgreSQL.
type BalanceRepository struct {
	// Methods receive a DBExecutor directly, so no connection is held here.
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(db *sqlx.DB) repository.BalanceRepository {
	return &BalanceRepository{}
}

// CreateBalance inserts a new balance row using the provided DBExecutor.
func (r *BalanceRepository) CreateBalance(ctx context.Context, q repository.DBExecutor, balance *domain.Balance) error {
	query := `INSERT INTO balances (amount, user_id)
              VALUES ($1, $2) RETURNING id`
	err := q.QueryRowContext(ctx, query, balance.Amount, balance.UserID).Scan(&balance.ID)
	if err != nil {
		return fmt.Errorf("failed to create balance: %w", err)
	}
	return nil
}

// GetBalanceByUserID retrieves the balance owned by the given user.
func (r *BalanceRepository) GetBalanceByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Balance, error) {
	var balance domain.Balance
	query := `SELECT id, amount, user_id FROM balances WHERE user_id = $1`
	err := q.GetContext(ctx, &balance, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get balance for user %d: %w", userID, err)
	}
	return &balance, nil
}

// UpdateBalanceAmount sets the amount of the given user's balance row.
func (r *BalanceRepository) UpdateBalanceAmount(ctx context.Context, q repository.DBExecutor, userID int64, amount float64) error {
	query := `UPDATE balances SET amount = $1 WHERE user_id = $2`
	result, err := q.ExecContext(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %d: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating balance for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
