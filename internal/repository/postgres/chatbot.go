package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"botflow/internal/domain"
	"botflow/internal/domain/models"
	"botflow/internal/domain/repositories"
)

// PostgresChatbotRepository implements the ChatbotRepository interface.
type PostgresChatbotRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewChatbotRepository creates a new chatbot repository.
func NewChatbotRepository(config *RepositoryConfig) repositories.ChatbotRepository {
	return &PostgresChatbotRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a chatbot and fills in its generated id and timestamps.
func (r *PostgresChatbotRepository) Create(ctx context.Context, bot *models.Chatbot) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, description, enable_whatsapp, enable_website, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, created_at, updated_at
	`, r.tables.Chatbots)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		bot.UserID,
		bot.Name,
		bot.Description,
		bot.EnableWhatsApp,
		bot.EnableWebsite,
	).Scan(&bot.ID, &bot.CreatedAt, &bot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create chatbot: %w", err)
	}

	return nil
}

// GetByID retrieves a chatbot scoped to its owner.
func (r *PostgresChatbotRepository) GetByID(ctx context.Context, id int64, userID string) (*models.Chatbot, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, description, enable_whatsapp, enable_website, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Chatbots)

	return r.scanOne(ctx, query, id, userID)
}

// GetByIDAny retrieves a chatbot without an ownership scope (widget path).
func (r *PostgresChatbotRepository) GetByIDAny(ctx context.Context, id int64) (*models.Chatbot, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, description, enable_whatsapp, enable_website, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Chatbots)

	return r.scanOne(ctx, query, id)
}

// FirstWhatsAppEnabled retrieves the oldest WhatsApp-enabled chatbot.
func (r *PostgresChatbotRepository) FirstWhatsAppEnabled(ctx context.Context) (*models.Chatbot, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, description, enable_whatsapp, enable_website, created_at, updated_at
		FROM %s
		WHERE enable_whatsapp
		ORDER BY created_at ASC
		LIMIT 1
	`, r.tables.Chatbots)

	return r.scanOne(ctx, query)
}

// ListByUser lists a user's chatbots, newest first.
func (r *PostgresChatbotRepository) ListByUser(ctx context.Context, userID string) ([]models.Chatbot, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, description, enable_whatsapp, enable_website, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, r.tables.Chatbots)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list chatbots: %w", err)
	}
	defer rows.Close()

	var bots []models.Chatbot
	for rows.Next() {
		var bot models.Chatbot
		err := rows.Scan(
			&bot.ID,
			&bot.UserID,
			&bot.Name,
			&bot.Description,
			&bot.EnableWhatsApp,
			&bot.EnableWebsite,
			&bot.CreatedAt,
			&bot.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan chatbot: %w", err)
		}
		bots = append(bots, bot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chatbots: %w", err)
	}

	return bots, nil
}

// Update rewrites a chatbot's own fields, scoped to its owner.
func (r *PostgresChatbotRepository) Update(ctx context.Context, bot *models.Chatbot) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, enable_whatsapp = $3, enable_website = $4, updated_at = now()
		WHERE id = $5 AND user_id = $6
	`, r.tables.Chatbots)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		bot.Name,
		bot.Description,
		bot.EnableWhatsApp,
		bot.EnableWebsite,
		bot.ID,
		bot.UserID,
	)
	if err != nil {
		return fmt.Errorf("update chatbot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("chatbot %d: %w", bot.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a chatbot; questions, options, forms, fields and
// submissions go with it via FK cascades.
func (r *PostgresChatbotRepository) Delete(ctx context.Context, id int64, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Chatbots)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete chatbot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("chatbot %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *PostgresChatbotRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.Chatbot, error) {
	var bot models.Chatbot
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&bot.ID,
		&bot.UserID,
		&bot.Name,
		&bot.Description,
		&bot.EnableWhatsApp,
		&bot.EnableWebsite,
		&bot.CreatedAt,
		&bot.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("chatbot: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get chatbot: %w", err)
	}

	return &bot, nil
}
