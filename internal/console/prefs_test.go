package console

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPrefs_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	prefs := LoadPrefs("opsboard-test", zap.NewNop())
	assert.True(t, prefs.CelebrationsEnabled())
}

func TestPrefs_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	prefs := LoadPrefs("opsboard-test", zap.NewNop())
	prefs.SetCelebrationsEnabled(false)

	_, err := os.Stat(filepath.Join(dir, "opsboard-test", "prefs.json"))
	require.NoError(t, err)

	reloaded := LoadPrefs("opsboard-test", zap.NewNop())
	assert.False(t, reloaded.CelebrationsEnabled())
}

func TestPrefs_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "opsboard-test", "prefs.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	prefs := LoadPrefs("opsboard-test", zap.NewNop())
	assert.True(t, prefs.CelebrationsEnabled())
}
