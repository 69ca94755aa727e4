package main

import (
	"context"
	"flag"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"botflow/internal/config"
	"botflow/internal/repository/postgres"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before creating (fresh start)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: refusing to drop tables in production environment")
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Printf("Dropping all tables (prefix: %s)...", cfg.TablePrefix)
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Printf("Ensuring schema (environment: %s, prefix: %s)...", cfg.Environment, cfg.TablePrefix)
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")
}

func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Chatbots + ` (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			enable_whatsapp BOOLEAN NOT NULL DEFAULT TRUE,
			enable_website BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Questions + ` (
			id BIGSERIAL PRIMARY KEY,
			chatbot_id BIGINT NOT NULL REFERENCES ` + tables.Chatbots + `(id) ON DELETE CASCADE,
			parent_question_id BIGINT REFERENCES ` + tables.Questions + `(id) ON DELETE CASCADE,
			trigger_option TEXT,
			question_type TEXT NOT NULL,
			question_text TEXT NOT NULL,
			answer_text TEXT,
			display_order INTEGER NOT NULL DEFAULT 0,
			is_welcome BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.QuestionOptions + ` (
			id BIGSERIAL PRIMARY KEY,
			question_id BIGINT NOT NULL REFERENCES ` + tables.Questions + `(id) ON DELETE CASCADE,
			option_text TEXT NOT NULL,
			display_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Forms + ` (
			id BIGSERIAL PRIMARY KEY,
			chatbot_id BIGINT NOT NULL REFERENCES ` + tables.Chatbots + `(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT,
			position TEXT NOT NULL DEFAULT 'none',
			submit_button_text TEXT NOT NULL DEFAULT 'Submit',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.FormFields + ` (
			id BIGSERIAL PRIMARY KEY,
			form_id BIGINT NOT NULL REFERENCES ` + tables.Forms + `(id) ON DELETE CASCADE,
			field_label TEXT NOT NULL,
			field_type TEXT NOT NULL,
			placeholder TEXT,
			is_required BOOLEAN NOT NULL DEFAULT FALSE,
			display_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.FormSubmissions + ` (
			id BIGSERIAL PRIMARY KEY,
			chatbot_id BIGINT NOT NULL REFERENCES ` + tables.Chatbots + `(id) ON DELETE CASCADE,
			user_phone TEXT,
			submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.FormSubmissionData + ` (
			id BIGSERIAL PRIMARY KEY,
			submission_id BIGINT NOT NULL REFERENCES ` + tables.FormSubmissions + `(id) ON DELETE CASCADE,
			field_id BIGINT NOT NULL REFERENCES ` + tables.FormFields + `(id) ON DELETE CASCADE,
			field_value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.AllowedDomains + ` (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			domain TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			UNIQUE(user_id, domain)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `chatbots_user ON ` + tables.Chatbots + `(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `questions_chatbot ON ` + tables.Questions + `(chatbot_id, display_order)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `question_options_question ON ` + tables.QuestionOptions + `(question_id, display_order)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `form_fields_form ON ` + tables.FormFields + `(form_id, display_order)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `form_submissions_chatbot ON ` + tables.FormSubmissions + `(chatbot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `allowed_domains_lookup ON ` + tables.AllowedDomains + `(domain, user_id) WHERE is_active`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	// Reverse dependency order.
	names := []string{
		tables.FormSubmissionData,
		tables.FormSubmissions,
		tables.FormFields,
		tables.Forms,
		tables.QuestionOptions,
		tables.Questions,
		tables.AllowedDomains,
		tables.Chatbots,
	}
	for _, name := range names {
		if _, err := pool.Exec(ctx, `DROP TABLE IF EXISTS `+name+` CASCADE`); err != nil {
			return err
		}
	}
	return nil
}
