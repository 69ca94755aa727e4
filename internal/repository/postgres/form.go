package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"botflow/internal/domain/models"
	"botflow/internal/domain/repositories"
)

// PostgresFormRepository implements the FormRepository interface.
type PostgresFormRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFormRepository creates a new form repository.
func NewFormRepository(config *RepositoryConfig) repositories.FormRepository {
	return &PostgresFormRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Insert stores a form and fills in its generated id.
func (r *PostgresFormRepository) Insert(ctx context.Context, form *models.Form) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (chatbot_id, title, description, position, submit_button_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id
	`, r.tables.Forms)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		form.ChatbotID,
		form.Title,
		form.Description,
		form.Position,
		form.SubmitButtonText,
	).Scan(&form.ID)
	if err != nil {
		return fmt.Errorf("insert form: %w", err)
	}

	return nil
}

// InsertField stores one form field and fills in its generated id.
func (r *PostgresFormRepository) InsertField(ctx context.Context, field *models.FormField) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (form_id, field_label, field_type, placeholder, is_required, display_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, r.tables.FormFields)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		field.FormID,
		field.Label,
		field.FieldType,
		field.Placeholder,
		field.Required,
		field.DisplayOrder,
	).Scan(&field.ID)
	if err != nil {
		return fmt.Errorf("insert form field: %w", err)
	}

	return nil
}

// DeleteByChatbot removes a chatbot's form. Field rows cascade.
func (r *PostgresFormRepository) DeleteByChatbot(ctx context.Context, chatbotID int64) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE chatbot_id = $1
	`, r.tables.Forms)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, chatbotID); err != nil {
		return fmt.Errorf("delete form: %w", err)
	}

	return nil
}

// GetByChatbot loads a chatbot's form with its fields in display order.
// Returns nil without error when the chatbot has no form.
func (r *PostgresFormRepository) GetByChatbot(ctx context.Context, chatbotID int64) (*models.Form, error) {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		SELECT id, chatbot_id, title, description, position, submit_button_text
		FROM %s
		WHERE chatbot_id = $1
	`, r.tables.Forms)

	var form models.Form
	err := executor.QueryRow(ctx, query, chatbotID).Scan(
		&form.ID,
		&form.ChatbotID,
		&form.Title,
		&form.Description,
		&form.Position,
		&form.SubmitButtonText,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get form: %w", err)
	}

	fieldQuery := fmt.Sprintf(`
		SELECT id, form_id, field_label, field_type, placeholder, is_required, display_order
		FROM %s
		WHERE form_id = $1
		ORDER BY display_order ASC, id ASC
	`, r.tables.FormFields)

	rows, err := executor.Query(ctx, fieldQuery, form.ID)
	if err != nil {
		return nil, fmt.Errorf("list form fields: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var field models.FormField
		err := rows.Scan(
			&field.ID,
			&field.FormID,
			&field.Label,
			&field.FieldType,
			&field.Placeholder,
			&field.Required,
			&field.DisplayOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("scan form field: %w", err)
		}
		form.Fields = append(form.Fields, field)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate form fields: %w", err)
	}

	return &form, nil
}
