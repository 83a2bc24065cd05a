// internal/service/balance_service.go
package service

import (
	"context"
	"fmt"

	"opledger/internal/domain"
	"opledger/internal/repository"
	"opledger/pkg/db"
)

// BalanceService defines the interface for balance-related business logic.
// All operations are scoped to a single authenticated user.
type BalanceService interface {
	GetBalance(ctx context.Context, userID int64) (*domain.Balance, error)
	UpdateBalance(ctx context.Context, userID int64, amount float64) (*domain.Balance, error)
}

// balanceService implements the BalanceService interface.
type balanceService struct {
	dbBeginner  db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor  repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	balanceRepo repository.BalanceRepository
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewBalanceService creates a new instance of BalanceService.
func NewBalanceService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	balanceRepo repository.BalanceRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) BalanceService {
	return &balanceService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		balanceRepo: balanceRepo,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// GetBalance returns the balance owned by userID, or util.ErrNotFound if no row exists.
func (s *balanceService) GetBalance(ctx context.Context, userID int64) (*domain.Balance, error) {
	balance, err := s.balanceRepo.GetBalanceByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("get balance: failed to get balance for user %d: %w", userID, err)
	}
	return balance, nil
}

// UpdateBalance sets the amount of the user's existing balance row and returns the
// updated row. A missing row yields util.ErrNotFound; the row is never auto-created.
// No locking is taken, so concurrent updates for the same user are last-write-wins.
func (s *balanceService) UpdateBalance(ctx context.Context, userID int64, amount float64) (*domain.Balance, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("update balance: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("update balance: transaction controller does not implement DBExecutor")
	}

	balance, err := s.balanceRepo.GetBalanceByUserID(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("update balance: failed to get balance for user %d: %w", userID, err)
	}

	if err := s.balanceRepo.UpdateBalanceAmount(ctx, txExecutor, userID, amount); err != nil {
		return nil, fmt.Errorf("update balance: failed to update balance for user %d: %w", userID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update balance: failed to commit transaction: %w", err)
	}

	balance.Amount = amount
	return balance, nil
}
