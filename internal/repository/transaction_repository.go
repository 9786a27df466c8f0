package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"fintrack/internal/domain"
)

// TransactionRepositoryImpl implements the TransactionRepository interface
type TransactionRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *pgxpool.Pool) domain.TransactionRepository {
	return &TransactionRepositoryImpl{db: db}
}

// Apply inserts the transaction and writes the adjusted balance as one
// atomic database write.
func (r *TransactionRepositoryImpl) Apply(ctx context.Context, transaction *domain.Transaction, newBalance decimal.Decimal) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction apply: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO transactions (id, user_id, amount, category, direction, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		transaction.ID,
		transaction.UserID,
		transaction.Amount,
		transaction.Category,
		transaction.Direction,
		transaction.OccurredAt,
	); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET balance = $1, updated_at = NOW() WHERE id = $2
	`, newBalance, transaction.UserID); err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction apply: %w", err)
	}

	return nil
}

// GetByUserID retrieves all transactions for a user, newest first
func (r *TransactionRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, amount, category, direction, occurred_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY occurred_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction := &domain.Transaction{}
		if err := rows.Scan(
			&transaction.ID,
			&transaction.UserID,
			&transaction.Amount,
			&transaction.Category,
			&transaction.Direction,
			&transaction.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}
