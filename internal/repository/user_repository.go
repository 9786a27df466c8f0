package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"fintrack/internal/domain"
)

const uniqueViolation = "23505"

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

const userColumns = `
	id, email, first_name, last_name, password_hash,
	balance, currency_code, currency_name, currency_symbol, currency_rate,
	score, premium, device_token, created_at, updated_at
`

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	var balance, rate decimal.NullDecimal
	var code, name, symbol *string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&balance,
		&code,
		&name,
		&symbol,
		&rate,
		&user.Score,
		&user.Premium,
		&user.DeviceToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if balance.Valid {
		user.Balance = &balance.Decimal
	}
	if code != nil {
		user.Currency = &domain.Currency{
			Code: *code,
			Rate: rate.Decimal,
		}
		if name != nil {
			user.Currency.Name = *name
		}
		if symbol != nil {
			user.Currency.Symbol = *symbol
		}
	}

	return user, nil
}

// Create creates a new user
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			id, email, first_name, last_name, password_hash,
			score, premium, device_token, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Score,
		user.Premium,
		user.DeviceToken,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// SearchByEmail retrieves every user matching the email
func (r *UserRepositoryImpl) SearchByEmail(ctx context.Context, email string) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to search users by email: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// SetInitialBalance sets balance and currency for a user
func (r *UserRepositoryImpl) SetInitialBalance(ctx context.Context, userID uuid.UUID, balance decimal.Decimal, currency domain.Currency) error {
	query := `
		UPDATE users
		SET balance = $1, currency_code = $2, currency_name = $3,
		    currency_symbol = $4, currency_rate = $5, updated_at = NOW()
		WHERE id = $6
	`

	_, err := r.db.Exec(ctx, query,
		balance,
		currency.Code,
		currency.Name,
		currency.Symbol,
		currency.Rate,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set initial balance: %w", err)
	}

	return nil
}

// UpdateScore updates a user's accumulated score
func (r *UserRepositoryImpl) UpdateScore(ctx context.Context, userID uuid.UUID, score decimal.Decimal) error {
	query := `
		UPDATE users
		SET score = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := r.db.Exec(ctx, query, score, userID)
	if err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}

	return nil
}

// SetPremium sets the premium entitlement flag
func (r *UserRepositoryImpl) SetPremium(ctx context.Context, userID uuid.UUID, premium bool) error {
	query := `
		UPDATE users
		SET premium = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := r.db.Exec(ctx, query, premium, userID)
	if err != nil {
		return fmt.Errorf("failed to set premium flag: %w", err)
	}

	return nil
}

// SetDeviceToken stores the push notification destination for a user
func (r *UserRepositoryImpl) SetDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
		UPDATE users
		SET device_token = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := r.db.Exec(ctx, query, token, userID)
	if err != nil {
		return fmt.Errorf("failed to set device token: %w", err)
	}

	return nil
}

// ChangeCurrency swaps the user's currency and rewrites balance plus all
// historical transaction amounts inside one database transaction.
func (r *UserRepositoryImpl) ChangeCurrency(ctx context.Context, userID uuid.UUID, balance decimal.Decimal, currency domain.Currency, rewrites []domain.AmountRewrite) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin currency change: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE users
		SET balance = $1, currency_code = $2, currency_name = $3,
		    currency_symbol = $4, currency_rate = $5, updated_at = NOW()
		WHERE id = $6
	`
	if _, err := tx.Exec(ctx, query,
		balance,
		currency.Code,
		currency.Name,
		currency.Symbol,
		currency.Rate,
		userID,
	); err != nil {
		return fmt.Errorf("failed to update balance and currency: %w", err)
	}

	for _, rw := range rewrites {
		if _, err := tx.Exec(ctx,
			`UPDATE transactions SET amount = $1 WHERE id = $2 AND user_id = $3`,
			rw.Amount, rw.TransactionID, userID,
		); err != nil {
			return fmt.Errorf("failed to rewrite transaction %s: %w", rw.TransactionID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit currency change: %w", err)
	}

	return nil
}
