// internal/domain/balance.go
package domain

// Balance represents a user's current balance.
// At most one Balance row exists per user (UNIQUE constraint on user_id).
type Balance struct {
	ID     int64   `db:"id" json:"id"`          // Primary key, BIGSERIAL in DB
	Amount float64 `db:"amount" json:"amount"`  // Current amount, DOUBLE PRECISION in DB
	UserID int64   `db:"user_id" json:"userId"` // Owning user
}

// NewBalance creates a new Balance instance.
func NewBalance(userID int64, amount float64) *Balance {
	return &Balance{
		Amount: amount,
		UserID: userID,
	}
}
