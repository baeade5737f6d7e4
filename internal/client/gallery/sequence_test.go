package gallery

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"testing"

	"github.com/dmitrijs2005/gophgallery/internal/client/migrations"
	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/gophgallery/internal/client/repositories/media"
	"github.com/dmitrijs2005/gophgallery/internal/client/resolver"
	"github.com/dmitrijs2005/gophgallery/internal/client/session"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openSQLiteStore(t *testing.T) media.Store {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "gallery.db"))
	require.NoError(t, err)

	goose.SetBaseFS(migrations.SQLite)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, "sqlite"))

	s := media.NewSQLiteStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func itemIDs(items []models.MediaRecord) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

// TestSession_RandomAddRemoveSequences replays seeded add/remove runs and
// checks the view after every step: it must hold exactly the records added
// and not yet removed, newest first, with one live handle each.
func TestSession_RandomAddRemoveSequences(t *testing.T) {
	stores := []struct {
		name string
		open func(t *testing.T) media.Store
	}{
		{"memory", func(*testing.T) media.Store { return media.NewMemoryStore() }},
		{"sqlite", openSQLiteStore},
	}

	for _, st := range stores {
		for seed := uint64(1); seed <= 8; seed++ {
			t.Run(fmt.Sprintf("%s/seed=%d", st.name, seed), func(t *testing.T) {
				ctx := context.Background()
				res := resolver.NewLocalResolver()
				sess := session.NewLocal(accounts.NewMemoryRepository(), logging.NewNop())
				g := New(st.open(t), res, sess, logging.NewNop())
				require.NoError(t, g.Reload(ctx))
				t.Cleanup(func() { _ = g.Close(ctx) })

				rng := rand.New(rand.NewPCG(seed, seed*31))
				var want []string // newest first

				for step := 0; step < 40; step++ {
					switch op := rng.IntN(10); {
					case op < 6 || len(want) == 0:
						batch := 1 + rng.IntN(3)
						ups := make([]models.Upload, batch)
						for i := range ups {
							ups[i] = upload(fmt.Sprintf("s%d-%d.jpg", step, i), "image/jpeg", 1+rng.IntN(64))
						}
						r := g.Add(ctx, ups...)
						require.NoError(t, r.Err())
						require.Len(t, r.Added, batch)
						for _, rec := range r.Added {
							want = append([]string{rec.ID}, want...)
						}
					case op < 9:
						i := rng.IntN(len(want))
						require.NoError(t, g.Remove(ctx, want[i]))
						want = slices.Delete(want, i, i+1)
					default:
						// unknown ids leave the view alone
						require.NoError(t, g.Remove(ctx, fmt.Sprintf("missing-%d", step)))
					}

					require.Equal(t, want, itemIDs(g.Items()), "step %d", step)
					require.Equal(t, len(want), res.Live(), "step %d", step)
				}

				// the store agrees with the view after a reload
				require.NoError(t, g.Reload(ctx))
				require.Equal(t, want, itemIDs(g.Items()))
				require.Equal(t, len(want), res.Live())
			})
		}
	}
}
