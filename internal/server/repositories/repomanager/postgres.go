package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophgallery/internal/server/migrations"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct {
	db    *sql.DB
	users *users.PostgresRepository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

var sqlOpen = sql.Open

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, "postgres")
}

// NewPostgresRepositoryManager connects through the pgx stdlib driver and
// migrates the schema.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return &PostgresRepositoryManager{db: db, users: users.NewPostgresRepository(db)}, nil
}

func (m *PostgresRepositoryManager) Users() users.Repository { return m.users }
func (m *PostgresRepositoryManager) Close() error            { return m.db.Close() }
