package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_OverridesAndFillsBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	data := []byte(`
store = "sqlite"
seed = false
sidebar_expanded = false
lists = ["Home", "Office"]
markdown_style = "dracula"

[logging]
level = "debug"

[keys]
quit = "x"
add = ""
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.False(t, cfg.Seed)
	assert.False(t, cfg.SidebarExpanded)
	assert.Equal(t, []string{"Home", "Office"}, cfg.Lists)
	assert.Equal(t, "dracula", cfg.MarkdownStyle)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "x", cfg.Keys.Quit)
	assert.Equal(t, "a", cfg.Keys.Add)
	assert.Equal(t, "ctrl+s", cfg.Keys.Save)
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("store = ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("TODAY_CONFIG", "/tmp/custom.toml")
	assert.Equal(t, "/tmp/custom.toml", ResolveConfigPath())

	t.Setenv("TODAY_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "today", DefaultConfigFileName), ResolveConfigPath())
}
