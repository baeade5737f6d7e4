package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophgallery/internal/client/config"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func stubInputs(t *testing.T, email string, secret string) {
	t.Helper()
	origST, origGP := prompt, readSecret
	prompt = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	readSecret = func(_ *bufio.Reader, _ io.Writer) ([]byte, error) { return []byte(secret), nil }
	t.Cleanup(func() {
		prompt = origST
		readSecret = origGP
	})
}

func newTestApp(t *testing.T, backend string) (*App, *bytes.Buffer) {
	t.Helper()
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.Backend = backend
	cfg.SQLitePath = filepath.Join(t.TempDir(), "gallery.db")

	app, err := NewApp(context.Background(), &cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.client.Close(context.Background()) })

	var out bytes.Buffer
	app.out = &out
	return app, &out
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func TestApp_AddListOpenRemove(t *testing.T) {
	app, out := newTestApp(t, config.BackendMemory)
	ctx := context.Background()

	img := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 100)...)
	path := writeFile(t, "cat.png", img)

	require.NoError(t, app.Add(ctx, []string{path, filepath.Join(t.TempDir(), "missing.jpg")}))
	require.Contains(t, out.String(), "Added cat.png (image,")
	require.Contains(t, out.String(), "Failed")
	require.Contains(t, out.String(), "1 added, 1 failed")

	items := app.client.Gallery.Items()
	require.Len(t, items, 1)
	id := items[0].ID

	out.Reset()
	require.NoError(t, app.List(ctx))
	require.Contains(t, out.String(), "cat.png")
	require.Contains(t, out.String(), id)

	dest := filepath.Join(t.TempDir(), "out", "cat.png")
	require.NoError(t, app.Open(ctx, id, dest))
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, img, got)

	require.ErrorIs(t, app.Open(ctx, "nope", dest), common.ErrorNotFound)

	out.Reset()
	require.NoError(t, app.Remove(ctx, []string{id, "nope"}))
	require.Contains(t, out.String(), "Removed "+id)
	require.Contains(t, out.String(), "No item nope")

	out.Reset()
	require.NoError(t, app.List(ctx))
	require.Equal(t, "No media yet.\n", out.String())
}

func TestApp_NonImageIsVideo(t *testing.T) {
	app, out := newTestApp(t, config.BackendMemory)
	path := writeFile(t, "notes.txt", []byte("plain text"))

	require.NoError(t, app.Add(context.Background(), []string{path}))
	require.Contains(t, out.String(), "Added notes.txt (video,")
}

func TestApp_AccountSwitch(t *testing.T) {
	app, out := newTestApp(t, config.BackendSQLite)
	ctx := context.Background()

	stubInputs(t, "A@Example.com", "pw1")
	require.NoError(t, app.SignUp(ctx))
	require.Contains(t, out.String(), "Signed up as A@Example.com")
	require.True(t, strings.Contains(app.status(), "A@Example.com"))

	require.NoError(t, app.Add(ctx, []string{writeFile(t, "cat.png", pngHeader)}))

	require.NoError(t, app.SignOut(ctx))
	require.Empty(t, app.client.Gallery.Items())

	out.Reset()
	require.NoError(t, app.WhoAmI(ctx))
	require.Equal(t, "guest\n", out.String())

	stubInputs(t, "a@example.com", "wrong")
	require.ErrorIs(t, app.SignIn(ctx), common.ErrInvalidCredential)

	stubInputs(t, "a@example.com", "pw1")
	out.Reset()
	require.NoError(t, app.SignIn(ctx))
	require.Contains(t, out.String(), "cat.png")
}

func TestApp_ClearAndStats(t *testing.T) {
	app, out := newTestApp(t, config.BackendMemory)
	ctx := context.Background()

	require.NoError(t, app.Add(ctx, []string{
		writeFile(t, "a.png", pngHeader),
		writeFile(t, "b.png", pngHeader),
	}))

	out.Reset()
	require.NoError(t, app.Clear(ctx))
	require.Equal(t, "Removed 2 items\n", out.String())

	out.Reset()
	require.NoError(t, app.Stats(ctx))
	require.Contains(t, out.String(), `gallery_uploads_total{result=ok} 2`)
	require.Contains(t, out.String(), "gallery_items 0")
}

func TestPrintIdentity(t *testing.T) {
	var buf bytes.Buffer
	printIdentity(&buf, "", false)
	require.Equal(t, "Not signed in\n", buf.String())
}
