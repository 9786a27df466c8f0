package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack/internal/domain"
)

// ReminderRepositoryImpl implements the ReminderRepository interface
type ReminderRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewReminderRepository creates a new ReminderRepository
func NewReminderRepository(db *pgxpool.Pool) domain.ReminderRepository {
	return &ReminderRepositoryImpl{db: db}
}

// Save creates a new reminder
func (r *ReminderRepositoryImpl) Save(ctx context.Context, reminder *domain.Reminder) error {
	query := `
		INSERT INTO reminders (id, user_id, direction, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		reminder.ID,
		reminder.UserID,
		reminder.Direction,
		reminder.Description,
		reminder.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save reminder: %w", err)
	}

	return nil
}

// GetByUserID retrieves all reminders for a user, newest first
func (r *ReminderRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error) {
	query := `
		SELECT id, user_id, direction, description, created_at
		FROM reminders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*domain.Reminder
	for rows.Next() {
		reminder := &domain.Reminder{}
		if err := rows.Scan(
			&reminder.ID,
			&reminder.UserID,
			&reminder.Direction,
			&reminder.Description,
			&reminder.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminders: %w", err)
	}

	return reminders, nil
}

// Delete removes a reminder owned by the user
func (r *ReminderRepositoryImpl) Delete(ctx context.Context, userID, reminderID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM reminders WHERE id = $1 AND user_id = $2`,
		reminderID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrReminderNotFound
	}

	return nil
}
