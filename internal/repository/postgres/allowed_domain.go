package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"botflow/internal/domain/repositories"
)

// PostgresAllowedDomainRepository implements AllowedDomainRepository.
type PostgresAllowedDomainRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewAllowedDomainRepository creates a new allowed-domain repository.
func NewAllowedDomainRepository(config *RepositoryConfig) repositories.AllowedDomainRepository {
	return &PostgresAllowedDomainRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// IsAllowed reports whether a domain is on a user's active allow-list.
func (r *PostgresAllowedDomainRepository) IsAllowed(ctx context.Context, domain, userID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE domain = $1 AND user_id = $2 AND is_active
		)
	`, r.tables.AllowedDomains)

	var allowed bool
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, domain, userID).Scan(&allowed); err != nil {
		return false, fmt.Errorf("check allowed domain: %w", err)
	}

	return allowed, nil
}
