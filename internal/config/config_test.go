package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DIRSCOPE_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	c, err := Load()
	require.NoError(t, err)

	require.False(t, c.Scan.CrossFilesystems)
	require.Empty(t, c.Scan.ExcludePatterns)
	require.InDelta(t, 10.0, c.Scan.ProgressPerSec, 0.001)
	require.Equal(t, 3000, c.UI.StatusBarTimeoutMillisec)
	require.Equal(t, 25000, c.UI.LongMessageTimeoutMilli)
	require.Equal(t, 200, c.UI.TreeExpandDelayMillisec)
	require.Equal(t, 200, c.UI.ProgressTickMillisec)
	require.True(t, c.UI.ShowTreemap)
	require.False(t, c.UI.TreemapOnSide)
	require.Contains(t, c.Cache.Path, "dirscope")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DIRSCOPE_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("DIRSCOPE_SCAN_CROSS_FILESYSTEMS", "true")
	t.Setenv("DIRSCOPE_UI_STATUS_BAR_TIMEOUT_MILLISEC", "5000")
	t.Setenv("DIRSCOPE_CACHE_PATH", "/tmp/other.db")

	c, err := Load()
	require.NoError(t, err)
	require.True(t, c.Scan.CrossFilesystems)
	require.Equal(t, 5000, c.UI.StatusBarTimeoutMillisec)
	require.Equal(t, "/tmp/other.db", c.Cache.Path)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[scan]
exclude_patterns = ["node_modules", ".git"]

[ui]
show_treemap = false
tree_expand_delay_millisec = 500
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("HOME", dir)
	t.Setenv("DIRSCOPE_CONFIG", path)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"node_modules", ".git"}, c.Scan.ExcludePatterns)
	require.False(t, c.UI.ShowTreemap)
	require.Equal(t, 500, c.UI.TreeExpandDelayMillisec)
	// untouched keys keep their defaults
	require.Equal(t, 3000, c.UI.StatusBarTimeoutMillisec)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	var c Config
	c.UI.StatusBarTimeoutMillisec = 3000
	c.UI.ShowTreemap = true
	c.Cache.Path = "/tmp/cache.db"

	require.NoError(t, WriteDefault(path, c))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "show_treemap = true")

	// a second call must not clobber user edits
	require.NoError(t, os.WriteFile(path, []byte("# edited\n"), 0o644))
	require.NoError(t, WriteDefault(path, c))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "# edited\n", string(data))
}
