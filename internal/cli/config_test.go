package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitely.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: /data/sitely.db\nlegacy: /data/legacy.json\nlog_level: debug\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		DB:       "/data/sitely.db",
		Legacy:   "/data/legacy.json",
		LogLevel: "debug",
	}, cfg)
}

func TestLoadConfig_MissingFileIsOptional(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitely.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: [unclosed"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
