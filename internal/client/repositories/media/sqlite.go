package media

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/dbx"
)

// SQLiteStore keeps payload and metadata in one row of the media table.
type SQLiteStore struct {
	db   *sql.DB
	conn dbx.DBTX
	now  func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore wraps a migrated database. The store owns db and closes it
// on Close.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, conn: db, now: time.Now}
}

// DB exposes the underlying handle so sibling repositories (accounts) can
// share the file.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Put(ctx context.Context, ownerKey string, up models.Upload, kind models.Kind) (*models.MediaRecord, error) {
	payload, err := up.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrIngestionFailed, up.Name, err)
	}

	created := s.now().UTC()
	res, err := s.conn.ExecContext(ctx, `
		INSERT INTO media (owner_key, kind, name, size, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ownerKey, string(kind), up.Name, int64(len(payload)), created.UnixNano(), payload)
	if err != nil {
		return nil, fmt.Errorf("%w: insert media: %v", common.ErrIngestionFailed, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: last insert id: %v", common.ErrIngestionFailed, err)
	}

	return &models.MediaRecord{
		ID:        strconv.FormatInt(id, 10),
		OwnerKey:  ownerKey,
		Kind:      kind,
		Name:      up.Name,
		Size:      int64(len(payload)),
		Payload:   payload,
		CreatedAt: created,
	}, nil
}

func (s *SQLiteStore) ListAll(ctx context.Context, ownerKey string) ([]*models.MediaRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, kind, name, size, created_at, payload
		FROM media
		WHERE owner_key = ?
		ORDER BY created_at DESC, id DESC
	`, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer rows.Close()

	var result []*models.MediaRecord
	for rows.Next() {
		var (
			id      int64
			kind    string
			created int64
			rec     = &models.MediaRecord{OwnerKey: ownerKey}
		)
		if err := rows.Scan(&id, &kind, &rec.Name, &rec.Size, &created, &rec.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan media row: %w", err)
		}
		if rec.Kind, err = models.ParseKind(kind); err != nil {
			return nil, fmt.Errorf("media row %d: %w", id, err)
		}
		rec.ID = strconv.FormatInt(id, 10)
		rec.CreatedAt = time.Unix(0, created).UTC()
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media rows: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, ownerKey, id string) error {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		// not an id this store could have issued
		return nil
	}
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM media WHERE owner_key = ? AND id = ?`, ownerKey, n); err != nil {
		return fmt.Errorf("failed to delete media[%s]: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context, ownerKey string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM media WHERE owner_key = ?`, ownerKey); err != nil {
		return fmt.Errorf("failed to clear media: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Persistent() bool { return true }
func (s *SQLiteStore) Local() bool      { return true }

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
