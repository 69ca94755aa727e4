package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"botflow/internal/domain/repositories"
)

// TableNames holds the prefixed table names for the current environment.
type TableNames struct {
	Chatbots           string
	Questions          string
	QuestionOptions    string
	Forms              string
	FormFields         string
	FormSubmissions    string
	FormSubmissionData string
	AllowedDomains     string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Chatbots:           prefix + "chatbots",
		Questions:          prefix + "questions",
		QuestionOptions:    prefix + "question_options",
		Forms:              prefix + "forms",
		FormFields:         prefix + "form_fields",
		FormSubmissions:    prefix + "form_submissions",
		FormSubmissionData: prefix + "form_submission_data",
		AllowedDomains:     prefix + "allowed_domains",
	}
}

// RepositoryConfig bundles what every repository constructor needs.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// CreateConnectionPool creates a pgx connection pool and verifies it with a
// ping. Connection poolers in transaction mode (port 6543) do not support
// prepared statements, so cache_describe is substituted there unless the
// connection string already pins a mode.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for transaction pooler", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the ambient transaction when one is present in the
// context, otherwise the pool. Repositories route every query through this so
// they automatically participate in a bulk save's transaction.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
