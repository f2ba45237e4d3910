package postlist_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypergopher/postlist"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "postlist.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("designSlugSuffix = \"-tpl\"\nlogLevel = \"debug\"\n"), 0644))

	yamlPath := filepath.Join(dir, "postlist.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("trashMarker: __bin\ntitlePrefix: list\n"), 0644))

	t.Run("toml", func(t *testing.T) {
		cfg, err := postlist.LoadConfig(tomlPath)
		require.NoError(t, err)
		assert.Equal(t, "-tpl", cfg.DesignSlugSuffix)
		assert.Equal(t, postlist.DefaultTrashMarker, cfg.TrashMarker)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("yaml", func(t *testing.T) {
		cfg, err := postlist.LoadConfig(yamlPath)
		require.NoError(t, err)
		assert.Equal(t, postlist.DefaultDesignSlugSuffix, cfg.DesignSlugSuffix)
		assert.Equal(t, "__bin", cfg.TrashMarker)
		assert.Equal(t, "list", cfg.TitlePrefix)
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := postlist.LoadConfig(filepath.Join(dir, "missing.toml"))
		require.NoError(t, err)
		assert.Equal(t, postlist.DefaultConfig(), cfg)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		t.Setenv("POSTLIST_TITLE_PREFIX", "env-list")
		cfg, err := postlist.LoadConfig(yamlPath)
		require.NoError(t, err)
		assert.Equal(t, "env-list", cfg.TitlePrefix)
	})

	t.Run("unknown extension", func(t *testing.T) {
		path := filepath.Join(dir, "postlist.ini")
		require.NoError(t, os.WriteFile(path, []byte("x=1"), 0644))

		_, err := postlist.LoadConfig(path)
		assert.ErrorIs(t, err, postlist.ErrUnsupportedFormat)
	})
}

func TestConfig_Options(t *testing.T) {
	cfg := postlist.DefaultConfig()
	cfg.DesignSlugSuffix = "-tpl"
	cfg.TitlePrefix = "list"

	store := postlist.NewMemoryStore()
	opts := cfg.Options()
	opts.Catalog = newTestCatalog()
	opts.PostLists = store
	opts.Designs = store

	m, err := postlist.New(opts)
	require.NoError(t, err)
	assert.Equal(t, "-tpl", m.SlugPolicy().Suffix)
	assert.Equal(t, postlist.DefaultTrashMarker, m.SlugPolicy().TrashMarker)
	assert.NotNil(t, opts.Logger)
}
