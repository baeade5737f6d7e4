package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/dbx"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO users (id, email, password_hash, created_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (email) DO NOTHING`

		res, err := tx.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if n == 0 {
			return common.ErrAlreadyExists
		}

		for _, t := range user.Tokens {
			if err := insertToken(ctx, tx, user.ID, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) get(ctx context.Context, query string, arg string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT token FROM user_tokens WHERE user_id = $1 ORDER BY created_at`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		user.Tokens = append(user.Tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) AddToken(ctx context.Context, userID, token string) error {
	return insertToken(ctx, r.db, userID, token)
}

func insertToken(ctx context.Context, db dbx.DBTX, userID, token string) error {
	_, err := db.ExecContext(ctx, `INSERT INTO user_tokens (token, user_id) VALUES ($1, $2)`, token, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return common.ErrAlreadyExists
			case foreignKeyViolation:
				return common.ErrorNotFound
			}
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
