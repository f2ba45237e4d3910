package postlist_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypergopher/postlist"
)

func TestPresetLibrary_ReadWriteDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	library := postlist.NewPresetLibrary(dir, postlist.FrontmatterYAML)

	preset := testPreset()
	preset.Slug = ""
	preset.Title = "My Preset"
	require.NoError(t, library.Write(ctx, preset))
	assert.Equal(t, "my-preset", preset.Slug)
	assert.FileExists(t, filepath.Join(dir, "my-preset.md"))

	read, err := library.Read(ctx, "my-preset")
	require.NoError(t, err)
	assert.Equal(t, preset, read)

	require.NoError(t, library.Delete(ctx, "my-preset"))
	assert.NoFileExists(t, filepath.Join(dir, "my-preset.md"))

	_, err = library.Read(ctx, "my-preset")
	assert.ErrorIs(t, err, postlist.ErrResourceNotFound)
	assert.ErrorIs(t, library.Delete(ctx, "my-preset"), postlist.ErrResourceNotFound)

	assert.ErrorIs(t, library.Write(ctx, &postlist.Preset{}), postlist.ErrInvalidPreset)
}

func TestPresetLibrary_Walk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	library := postlist.NewPresetLibrary(dir, postlist.FrontmatterTOML)

	first := testPreset()
	require.NoError(t, library.Write(ctx, first))

	second := testPreset()
	second.Slug = "second"
	require.NoError(t, library.Write(ctx, second))

	// A preset without a slug takes its file name.
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "from-file.md"), []byte("---\ntitle: From File\n---\n\nbody"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	presets, errs := library.Walk(ctx)

	slugs := map[string]bool{}
	for preset := range presets {
		slugs[preset.Slug] = true
	}
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, map[string]bool{"latest-news": true, "second": true, "from-file": true}, slugs)
}
