package domain

import (
	"context"
	"time"
)

// Repository is the optional audit store for issued assessments,
// ingested transactions, and custom-rule configurations. The activity
// ledger never reads from it; history-based rules run entirely on
// process memory.
type Repository interface {
	// Transaction audit trail
	SaveTransaction(ctx context.Context, tx *Transaction) error

	// Assessment results
	SaveAssessment(ctx context.Context, a *Assessment) error
	GetAssessment(ctx context.Context, id string) (*Assessment, error)

	// Custom rule configurations
	SaveCustomRule(ctx context.Context, rule *CustomRule) error
	GetCustomRule(ctx context.Context, id string) (*CustomRule, error)
	ListCustomRules(ctx context.Context) ([]*CustomRule, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string

	// SQLite specific
	SQLitePath string

	// PostgreSQL specific
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
