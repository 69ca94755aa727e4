package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"botflow/internal/domain/models"
	"botflow/internal/domain/repositories"
)

// PostgresQuestionRepository implements the QuestionRepository interface.
type PostgresQuestionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewQuestionRepository creates a new question repository.
func NewQuestionRepository(config *RepositoryConfig) repositories.QuestionRepository {
	return &PostgresQuestionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Insert stores a question row and fills in its generated stable id.
func (r *PostgresQuestionRepository) Insert(ctx context.Context, q *models.Question) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (chatbot_id, parent_question_id, trigger_option, question_type,
		                question_text, answer_text, display_order, is_welcome, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING id
	`, r.tables.Questions)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		q.ChatbotID,
		q.ParentQuestionID,
		q.TriggerOption,
		q.Type,
		q.Text,
		q.Answer,
		q.DisplayOrder,
		q.IsWelcome,
	).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}

	return nil
}

// InsertOption stores one option row for a question.
func (r *PostgresQuestionRepository) InsertOption(ctx context.Context, questionID int64, text string, displayOrder int) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (question_id, option_text, display_order)
		VALUES ($1, $2, $3)
	`, r.tables.QuestionOptions)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, questionID, text, displayOrder); err != nil {
		return fmt.Errorf("insert question option: %w", err)
	}

	return nil
}

// SetParent patches a question's parent link. Used by the relink pass of the
// bulk save for batches that list children before their parents.
func (r *PostgresQuestionRepository) SetParent(ctx context.Context, questionID, parentID int64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_question_id = $1, updated_at = now()
		WHERE id = $2
	`, r.tables.Questions)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, parentID, questionID); err != nil {
		return fmt.Errorf("set question parent: %w", err)
	}

	return nil
}

// DeleteByChatbot removes a chatbot's whole tree. Option rows cascade.
func (r *PostgresQuestionRepository) DeleteByChatbot(ctx context.Context, chatbotID int64) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE chatbot_id = $1
	`, r.tables.Questions)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, chatbotID); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}

	return nil
}

// ListByChatbot loads a chatbot's questions in display order with each
// question's Options populated, ready for flow.NewTree.
func (r *PostgresQuestionRepository) ListByChatbot(ctx context.Context, chatbotID int64) ([]models.Question, error) {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		SELECT id, chatbot_id, parent_question_id, trigger_option, question_type,
		       question_text, answer_text, display_order, is_welcome
		FROM %s
		WHERE chatbot_id = $1
		ORDER BY display_order ASC, id ASC
	`, r.tables.Questions)

	rows, err := executor.Query(ctx, query, chatbotID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	index := make(map[int64]int)
	for rows.Next() {
		var q models.Question
		err := rows.Scan(
			&q.ID,
			&q.ChatbotID,
			&q.ParentQuestionID,
			&q.TriggerOption,
			&q.Type,
			&q.Text,
			&q.Answer,
			&q.DisplayOrder,
			&q.IsWelcome,
		)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		index[q.ID] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	if len(questions) == 0 {
		return nil, nil
	}

	optionQuery := fmt.Sprintf(`
		SELECT o.question_id, o.option_text
		FROM %s o
		JOIN %s q ON q.id = o.question_id
		WHERE q.chatbot_id = $1
		ORDER BY o.question_id ASC, o.display_order ASC, o.id ASC
	`, r.tables.QuestionOptions, r.tables.Questions)

	optionRows, err := executor.Query(ctx, optionQuery, chatbotID)
	if err != nil {
		return nil, fmt.Errorf("list question options: %w", err)
	}
	defer optionRows.Close()

	for optionRows.Next() {
		var questionID int64
		var text string
		if err := optionRows.Scan(&questionID, &text); err != nil {
			return nil, fmt.Errorf("scan question option: %w", err)
		}
		if i, ok := index[questionID]; ok {
			questions[i].Options = append(questions[i].Options, text)
		}
	}
	if err := optionRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate question options: %w", err)
	}

	return questions, nil
}
