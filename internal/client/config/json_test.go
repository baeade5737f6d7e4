package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"backend":           "remote",
		"object_endpoint":   "minio:9000",
		"object_path_style": false,
		"url_ttl":           "10m",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		var cfg Config
		cfg.LoadDefaults()
		parseJson(&cfg)

		assert.Equal(t, "remote", cfg.Backend)
		assert.Equal(t, "minio:9000", cfg.ObjectEndpoint)
		assert.False(t, cfg.ObjectPathStyle)
		assert.Equal(t, 10*time.Minute, cfg.URLTTL)
		// absent keys keep their defaults
		assert.Equal(t, "gallery.db", cfg.SQLitePath)
		assert.Equal(t, URLCacheLRU, cfg.URLCache)
	})

	t.Run("no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{Backend: "memory", URLTTL: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "memory", cfg.Backend)
		assert.Equal(t, 42*time.Second, cfg.URLTTL)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-c", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
