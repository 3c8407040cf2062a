package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

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

func Test_parseJson(t *testing.T) {
	dir := t.TempDir()

	t.Run("overlays present keys only", func(t *testing.T) {
		path := writeTempJSON(t, dir, "partial.json", map[string]any{
			"vault_name":        "deep",
			"dry_run":           true,
			"access_key_id":     "AKIA",
			"secret_access_key": "s3cr3t",
		})

		cfg := defaults()
		require.NoError(t, parseJson(&cfg, path))

		assert.Equal(t, "deep", cfg.Vault)
		assert.True(t, cfg.DryRun)
		assert.Equal(t, "AKIA", cfg.AccessKeyID)
		assert.Equal(t, "s3cr3t", cfg.SecretAccessKey)
		assert.Equal(t, "glacier_receipts.json", cfg.ReceiptsFile)
	})

	t.Run("explicit empty value overrides default", func(t *testing.T) {
		path := writeTempJSON(t, dir, "empty.json", map[string]any{"output_dir": ""})

		cfg := defaults()
		require.NoError(t, parseJson(&cfg, path))
		assert.Empty(t, cfg.OutputDir)
	})

	t.Run("no path leaves config unchanged", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJson(&cfg, ""))
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := defaults()
		assert.Error(t, parseJson(&cfg, bad))
	})
}
