package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, acc *models.Account) error {
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (key, email, secret_hash, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`, acc.Key, acc.Email, acc.SecretHash, acc.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to create account[%s]: %w", acc.Key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to create account[%s]: %w", acc.Key, err)
	}
	if n == 0 {
		return common.ErrAlreadyExists
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (*models.Account, error) {
	acc := &models.Account{}
	var created int64
	err := r.db.QueryRowContext(ctx, `SELECT key, email, secret_hash, created_at FROM accounts WHERE key = ?`, key).
		Scan(&acc.Key, &acc.Email, &acc.SecretHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account[%s]: %w", key, err)
	}
	acc.CreatedAt = time.Unix(0, created).UTC()
	return acc, nil
}
