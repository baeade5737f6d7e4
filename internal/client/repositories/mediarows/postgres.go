// Package mediarows is the remote media_items metadata table in PostgreSQL.
package mediarows

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/dbx"
)

// PostgresRepository implements media.RowRepository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, rec *models.MediaRecord) error {
	query := `
		INSERT INTO media_items (owner_key, object_key, kind, name, size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		rec.OwnerKey, rec.ObjectKey, string(rec.Kind), rec.Name, rec.Size).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return nil
}

// ListByOwner returns the owner's rows, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerKey string) ([]*models.MediaRecord, error) {
	query := `
		SELECT id, object_key, kind, name, size, created_at
		FROM media_items
		WHERE owner_key = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to select media_items: %w", err)
	}
	defer rows.Close()

	var result []*models.MediaRecord
	for rows.Next() {
		var kind string
		item := &models.MediaRecord{OwnerKey: ownerKey}
		if err := rows.Scan(&item.ID, &item.ObjectKey, &kind, &item.Name, &item.Size, &item.CreatedAt); err != nil {
			return nil, err
		}
		if item.Kind, err = models.ParseKind(kind); err != nil {
			return nil, fmt.Errorf("media_items %s: %w", item.ID, err)
		}
		item.CreatedAt = item.CreatedAt.UTC()
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes one row and returns its object key. Ids are compared as
// text so a malformed id is simply not found.
func (r *PostgresRepository) Delete(ctx context.Context, ownerKey, id string) (string, error) {
	query := `DELETE FROM media_items WHERE owner_key = $1 AND id::text = $2 RETURNING object_key`

	var key string
	err := r.db.QueryRowContext(ctx, query, ownerKey, id).Scan(&key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return key, nil
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerKey string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `DELETE FROM media_items WHERE owner_key = $1 RETURNING object_key`, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to delete media_items: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
