package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"botflow/internal/domain/models"
	"botflow/internal/domain/repositories"
)

// PostgresSubmissionRepository implements SubmissionRepository.
type PostgresSubmissionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewSubmissionRepository creates a new form-submission repository.
func NewSubmissionRepository(config *RepositoryConfig) repositories.SubmissionRepository {
	return &PostgresSubmissionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Insert stores a submission head row and fills in id and timestamp.
func (r *PostgresSubmissionRepository) Insert(ctx context.Context, submission *models.FormSubmission) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (chatbot_id, user_phone, submitted_at, created_at, updated_at)
		VALUES ($1, $2, now(), now(), now())
		RETURNING id, submitted_at
	`, r.tables.FormSubmissions)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		submission.ChatbotID,
		submission.UserPhone,
	).Scan(&submission.ID, &submission.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert form submission: %w", err)
	}

	return nil
}

// InsertValue stores one field's answer for a submission.
func (r *PostgresSubmissionRepository) InsertValue(ctx context.Context, submissionID, fieldID int64, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (submission_id, field_id, field_value)
		VALUES ($1, $2, $3)
	`, r.tables.FormSubmissionData)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, submissionID, fieldID, value); err != nil {
		return fmt.Errorf("insert submission value: %w", err)
	}

	return nil
}
