package resolver

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestResolveAll_PreservesOrderAndDropsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	s := &fakeSigner{fail: map[string]bool{"u/3": true}}
	r := NewRemoteResolver(s, 0, nil, logging.NewNop())

	var recs []*models.MediaRecord
	for _, k := range []string{"u/1", "u/2", "u/3", "u/4", "u/5", "u/6", "u/7", "u/8", "u/9", "u/10"} {
		recs = append(recs, &models.MediaRecord{ID: k, ObjectKey: k})
	}

	out := ResolveAll(context.Background(), r, recs, log)
	require.Len(t, out, 9)
	want := []string{"u/1", "u/2", "u/4", "u/5", "u/6", "u/7", "u/8", "u/9", "u/10"}
	for i, rec := range out {
		require.Equal(t, want[i], rec.ID)
		require.NotEmpty(t, rec.URI)
	}
	require.Contains(t, buf.String(), "dropping unresolved record")
	require.Contains(t, buf.String(), "u/3")
}

func TestResolveAll_Empty(t *testing.T) {
	out := ResolveAll(context.Background(), NewLocalResolver(), nil, logging.NewNop())
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestResolveAll_Local(t *testing.T) {
	r := NewLocalResolver()
	recs := []*models.MediaRecord{
		{ID: "2", Payload: []byte("two")},
		{ID: "1", Payload: []byte("one")},
		{ID: "orphan"},
	}

	out := ResolveAll(context.Background(), r, recs, logging.NewNop())
	require.Len(t, out, 2)
	require.Equal(t, "2", out[0].ID)
	require.Equal(t, 2, r.Live())

	b, err := r.Open(out[1].URI)
	require.NoError(t, err)
	require.Equal(t, "one", string(b))
}
