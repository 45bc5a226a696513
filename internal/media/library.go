// Package media stores uploaded media assets and resolves them for rendering.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"

	"mj-blocks/internal/model"
	"mj-blocks/internal/storage"
	"mj-blocks/pkg/fsutils"
)

var (
	// ErrAssetNotFound is returned when an asset id has no record or its file is gone.
	ErrAssetNotFound = errors.New("media asset not found")
	// ErrBundleMismatch is returned when a file's content does not fit the target bundle.
	ErrBundleMismatch = errors.New("file does not match media bundle")
)

// sniffLen is how many leading bytes filetype needs to recognise a format.
const sniffLen = 261

// Library keeps asset records in an AssetStore and their files under a files directory.
type Library struct {
	store    storage.AssetStore
	filesDir string
	logger   *slog.Logger
}

// NewLibrary creates a Library, making sure filesDir exists.
func NewLibrary(store storage.AssetStore, filesDir string, logger *slog.Logger) (*Library, error) {
	if err := fsutils.CreateDir(filesDir); err != nil {
		return nil, fmt.Errorf("failed to create files directory '%s': %w", filesDir, err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Library{store: store, filesDir: filesDir, logger: logger}, nil
}

// FilesDir returns the directory public:// URIs resolve into.
func (l *Library) FilesDir() string {
	return l.filesDir
}

// FilePath returns the local path of a public:// URI, or "" for other schemes.
func (l *Library) FilePath(uri string) string {
	rel, ok := strings.CutPrefix(uri, PublicScheme)
	if !ok {
		return ""
	}
	return filepath.Join(l.filesDir, filepath.FromSlash(filepath.Clean("/"+rel)))
}

// Get returns the asset record for id.
func (l *Library) Get(assetID string) (*model.Asset, error) {
	asset, err := l.store.LoadAsset(assetID)
	if err != nil {
		if storage.IsNotFound(err) || errors.Is(err, storage.ErrInvalidID) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, assetID)
		}
		return nil, fmt.Errorf("loading asset %s: %w", assetID, err)
	}
	return asset, nil
}

// Resolve returns the file handle of an asset whose file is still present.
func (l *Library) Resolve(assetID string) (model.FileHandle, error) {
	asset, err := l.Get(assetID)
	if err != nil {
		return model.FileHandle{}, err
	}
	if p := l.FilePath(asset.URI); p != "" && !fsutils.FileExists(p) {
		return model.FileHandle{}, fmt.Errorf("%w: file for %s is missing", ErrAssetNotFound, assetID)
	}
	return asset.Handle(), nil
}

// List returns assets, newest first, optionally limited to the given bundles.
func (l *Library) List(bundles ...string) ([]*model.Asset, error) {
	all, err := l.store.ReadAllAssets()
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	out := make([]*model.Asset, 0, len(all))
	for _, a := range all {
		if len(bundles) == 0 || slices.Contains(bundles, a.Bundle) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Import copies the file at srcPath into the library under bundle.
func (l *Library) Import(srcPath, bundle string) (*model.Asset, error) {
	kind, err := filetype.MatchFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", srcPath, err)
	}
	if err := checkBundle(kind, bundle); err != nil {
		return nil, fmt.Errorf("importing %s: %w", srcPath, err)
	}

	asset := l.newAsset(filepath.Base(srcPath), bundle, kind)
	dst := l.FilePath(asset.URI)
	if err := fsutils.CopyFile(srcPath, dst); err != nil {
		return nil, err
	}
	return l.save(asset, dst)
}

// ImportReader stores the content of r, uploaded as filename, under bundle.
func (l *Library) ImportReader(r io.Reader, filename, bundle string) (*model.Asset, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading upload %s: %w", filename, err)
	}
	head = head[:n]

	kind, err := filetype.Match(head)
	if err != nil {
		return nil, fmt.Errorf("sniffing upload %s: %w", filename, err)
	}
	if err := checkBundle(kind, bundle); err != nil {
		return nil, fmt.Errorf("importing %s: %w", filename, err)
	}

	asset := l.newAsset(filepath.Base(filename), bundle, kind)
	dst := l.FilePath(asset.URI)
	f, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %q: %w", dst, err)
	}
	if _, err := io.Copy(f, io.MultiReader(bytes.NewReader(head), r)); err != nil {
		f.Close()
		os.Remove(dst)
		return nil, fmt.Errorf("failed to store upload %s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("failed to close file %q: %w", dst, err)
	}
	return l.save(asset, dst)
}

// Save stores an asset record as is. The caller is responsible for the file.
func (l *Library) Save(asset *model.Asset) error {
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}
	return l.store.SaveAsset(asset)
}

// Delete removes an asset record and its file. Blocks that still point at the
// asset render without a background image afterwards.
func (l *Library) Delete(assetID string) error {
	asset, err := l.Get(assetID)
	if err != nil {
		return err
	}
	if p := l.FilePath(asset.URI); p != "" {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete file %q: %w", p, err)
		}
	}
	if err := l.store.DeleteAsset(assetID); err != nil {
		return fmt.Errorf("deleting asset %s: %w", assetID, err)
	}
	l.logger.Info("Deleted media asset", "assetID", assetID, "uri", asset.URI)
	return nil
}

func (l *Library) newAsset(filename, bundle string, kind types.Type) *model.Asset {
	id := uuid.New().String()
	name := fsutils.SanitizeFilename(filename)
	if name == "" || name == "_" {
		name = "file." + kind.Extension
	}
	return &model.Asset{
		ID:        id,
		Bundle:    bundle,
		Filename:  filename,
		URI:       PublicScheme + id[:8] + "-" + name,
		MimeType:  kind.MIME.Value,
		CreatedAt: time.Now().UTC(),
	}
}

func (l *Library) save(asset *model.Asset, path string) (*model.Asset, error) {
	if err := l.store.SaveAsset(asset); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("saving asset record: %w", err)
	}
	l.logger.Info("Imported media asset", "assetID", asset.ID, "bundle", asset.Bundle, "uri", asset.URI, "mime", asset.MimeType)
	return asset, nil
}

func checkBundle(kind types.Type, bundle string) error {
	if bundle == model.ImageBundle && kind.MIME.Type != "image" {
		return fmt.Errorf("%w: %s needs an image, got %q", ErrBundleMismatch, bundle, kind.MIME.Value)
	}
	return nil
}
