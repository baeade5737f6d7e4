package media

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestOpen_DegradesToMemory(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	s := Open(context.Background(), func(ctx context.Context) (*sql.DB, error) {
		return nil, errors.New("disk is read-only")
	}, log)

	require.IsType(t, &MemoryStore{}, s)
	require.False(t, s.Persistent())
	require.Contains(t, buf.String(), "falling back to memory")
	require.Contains(t, buf.String(), "disk is read-only")
}

func TestOpen_UsesSQLite(t *testing.T) {
	s := Open(context.Background(), func(ctx context.Context) (*sql.DB, error) {
		return openSQLite(t), nil
	}, logging.NewNop())
	defer s.Close()

	require.IsType(t, &SQLiteStore{}, s)
	require.True(t, s.Persistent())
}
