package media

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mj-blocks/internal/model"
	"mj-blocks/internal/storage"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR fake image body")

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewAssetJSONStore(filepath.Join(dir, "assets"), nil)
	require.NoError(t, err)
	lib, err := NewLibrary(store, filepath.Join(dir, "files"), nil)
	require.NoError(t, err)
	return lib
}

func TestImportAndResolve(t *testing.T) {
	lib := newTestLibrary(t)

	src := filepath.Join(t.TempDir(), "My Background.png")
	require.NoError(t, os.WriteFile(src, pngBytes, 0644))

	asset, err := lib.Import(src, model.ImageBundle)
	require.NoError(t, err)
	assert.Equal(t, model.ImageBundle, asset.Bundle)
	assert.Equal(t, "My Background.png", asset.Filename)
	assert.Equal(t, "image/png", asset.MimeType)
	assert.True(t, strings.HasPrefix(asset.URI, PublicScheme))
	assert.True(t, strings.HasSuffix(asset.URI, "-my_background.png"))

	stored, err := os.ReadFile(lib.FilePath(asset.URI))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)

	handle, err := lib.Resolve(asset.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.URI, handle.URI)
	assert.Equal(t, "image/png", handle.MimeType)
}

func TestImportRejectsNonImages(t *testing.T) {
	lib := newTestLibrary(t)

	src := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("just some text"), 0644))

	_, err := lib.Import(src, model.ImageBundle)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBundleMismatch))

	assets, err := lib.List()
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestImportReader(t *testing.T) {
	lib := newTestLibrary(t)

	asset, err := lib.ImportReader(bytes.NewReader(pngBytes), "bg.png", model.ImageBundle)
	require.NoError(t, err)

	stored, err := os.ReadFile(lib.FilePath(asset.URI))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)

	_, err = lib.ImportReader(strings.NewReader("tiny"), "x.txt", model.ImageBundle)
	assert.True(t, errors.Is(err, ErrBundleMismatch))
}

func TestResolveMissing(t *testing.T) {
	lib := newTestLibrary(t)

	_, err := lib.Resolve("does-not-exist")
	assert.True(t, errors.Is(err, ErrAssetNotFound))

	_, err = lib.Resolve("../../etc/passwd")
	assert.True(t, errors.Is(err, ErrAssetNotFound))
}

func TestResolveWithDeletedFile(t *testing.T) {
	lib := newTestLibrary(t)

	asset, err := lib.ImportReader(bytes.NewReader(pngBytes), "bg.png", model.ImageBundle)
	require.NoError(t, err)
	require.NoError(t, os.Remove(lib.FilePath(asset.URI)))

	_, err = lib.Resolve(asset.ID)
	assert.True(t, errors.Is(err, ErrAssetNotFound))
}

func TestDelete(t *testing.T) {
	lib := newTestLibrary(t)

	asset, err := lib.ImportReader(bytes.NewReader(pngBytes), "bg.png", model.ImageBundle)
	require.NoError(t, err)

	require.NoError(t, lib.Delete(asset.ID))
	_, err = os.Stat(lib.FilePath(asset.URI))
	assert.True(t, os.IsNotExist(err))

	_, err = lib.Resolve(asset.ID)
	assert.True(t, errors.Is(err, ErrAssetNotFound))
	assert.True(t, errors.Is(lib.Delete(asset.ID), ErrAssetNotFound))
}

func TestListFiltersByBundle(t *testing.T) {
	lib := newTestLibrary(t)

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, lib.Save(&model.Asset{ID: "1", Bundle: model.ImageBundle, URI: "public://a.png", CreatedAt: old}))
	require.NoError(t, lib.Save(&model.Asset{ID: "2", Bundle: "document", URI: "public://b.pdf", CreatedAt: old}))
	require.NoError(t, lib.Save(&model.Asset{ID: "3", Bundle: model.ImageBundle, URI: "public://c.png", CreatedAt: old.Add(time.Hour)}))

	images, err := lib.List(model.ImageBundle)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "3", images[0].ID)
	assert.Equal(t, "1", images[1].ID)

	all, err := lib.List()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFilePathStaysInFilesDir(t *testing.T) {
	lib := newTestLibrary(t)

	p := lib.FilePath("public://../../outside.png")
	assert.Equal(t, filepath.Join(lib.FilesDir(), "outside.png"), p)
	assert.Equal(t, "", lib.FilePath("private://x.png"))
}
