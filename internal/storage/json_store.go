package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"mj-blocks/internal/model"
	"mj-blocks/pkg/fsutils"
)

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// jsonDir stores one JSON file per record in a directory.
type jsonDir[T any] struct {
	mu     sync.RWMutex
	path   string
	kind   string // Used in errors and logs, e.g. "block"
	logger *slog.Logger
}

func newJSONDir[T any](path, kind string, logger *slog.Logger) (*jsonDir[T], error) {
	if err := fsutils.CreateDir(path); err != nil {
		return nil, fmt.Errorf("failed to create storage directory '%s': %w", path, err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &jsonDir[T]{path: path, kind: kind, logger: logger}, nil
}

func (d *jsonDir[T]) file(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%s ID cannot be empty: %w", d.kind, ErrInvalidID)
	}
	if !validID.MatchString(id) {
		return "", fmt.Errorf("%s ID %q: %w", d.kind, id, ErrInvalidID)
	}
	return filepath.Join(d.path, id+".json"), nil
}

func (d *jsonDir[T]) save(id string, v *T) error {
	filePath, err := d.file(id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s %s: %w", d.kind, id, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := fsutils.WriteToFile(filePath, data); err != nil {
		return fmt.Errorf("failed to write %s file %s: %w", d.kind, filePath, err)
	}
	d.logger.Debug("Saved record", "kind", d.kind, "id", id, "path", filePath)
	return nil
}

func (d *jsonDir[T]) load(id string) (*T, error) {
	filePath, err := d.file(id)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	data, err := os.ReadFile(filePath)
	d.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s %s not found: %w", d.kind, id, err)
		}
		return nil, fmt.Errorf("failed to read %s file %s: %w", d.kind, filePath, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s data from %s: %w", d.kind, filePath, err)
	}
	return &v, nil
}

func (d *jsonDir[T]) ids() ([]string, error) {
	d.mu.RLock()
	files, err := os.ReadDir(d.path)
	d.mu.RUnlock()
	if err != nil {
		// If the base path itself doesn't exist yet, return empty list, no error
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read storage directory %s: %w", d.path, err)
	}

	ids := make([]string, 0, len(files))
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".json") {
			ids = append(ids, strings.TrimSuffix(file.Name(), ".json"))
		}
	}
	return ids, nil
}

func (d *jsonDir[T]) delete(id string) error {
	filePath, err := d.file(id)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			d.logger.Debug("Record already deleted or never existed", "kind", d.kind, "id", id)
			return nil
		}
		return fmt.Errorf("failed to delete %s file %s: %w", d.kind, filePath, err)
	}
	d.logger.Debug("Deleted record", "kind", d.kind, "id", id)
	return nil
}

func (d *jsonDir[T]) readAll() ([]*T, error) {
	ids, err := d.ids()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s IDs: %w", d.kind, err)
	}
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		v, err := d.load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s %s during ReadAll: %w", d.kind, id, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// JSONStore implements BlockStore using one JSON file per block.
type JSONStore struct {
	// BasePath is the directory where block files (*.json) are stored.
	BasePath string
	blocks   *jsonDir[model.Block]
}

// NewJSONStore creates a new JSONStore instance.
// It ensures the base storage directory exists.
func NewJSONStore(basePath string, logger *slog.Logger) (*JSONStore, error) {
	blocks, err := newJSONDir[model.Block](basePath, "block", logger)
	if err != nil {
		return nil, err
	}
	return &JSONStore{BasePath: basePath, blocks: blocks}, nil
}

// GetBasePath returns the base path of the JSON store.
func (s *JSONStore) GetBasePath() string {
	return s.BasePath
}

// SaveBlock persists the block to its JSON file.
func (s *JSONStore) SaveBlock(block *model.Block) error {
	return s.blocks.save(block.ID, block)
}

// LoadBlock retrieves a block from its JSON file.
// A missing block yields an error wrapping both ErrBlockNotFound and os.ErrNotExist.
func (s *JSONStore) LoadBlock(blockID string) (*model.Block, error) {
	block, err := s.blocks.load(blockID)
	if err != nil && IsNotFound(err) {
		return nil, fmt.Errorf("%w: %w", ErrBlockNotFound, err)
	}
	return block, err
}

// GetAllBlockIDs scans the BasePath directory for *.json files and extracts IDs.
func (s *JSONStore) GetAllBlockIDs() ([]string, error) {
	return s.blocks.ids()
}

// DeleteBlock removes the block's JSON file.
func (s *JSONStore) DeleteBlock(blockID string) error {
	return s.blocks.delete(blockID)
}

// ReadAll loads every stored block.
func (s *JSONStore) ReadAll() ([]*model.Block, error) {
	return s.blocks.readAll()
}

// AssetJSONStore implements AssetStore using one JSON file per asset.
type AssetJSONStore struct {
	assets *jsonDir[model.Asset]
}

// NewAssetJSONStore creates the asset store under basePath.
func NewAssetJSONStore(basePath string, logger *slog.Logger) (*AssetJSONStore, error) {
	assets, err := newJSONDir[model.Asset](basePath, "asset", logger)
	if err != nil {
		return nil, err
	}
	return &AssetJSONStore{assets: assets}, nil
}

func (s *AssetJSONStore) SaveAsset(asset *model.Asset) error {
	return s.assets.save(asset.ID, asset)
}

func (s *AssetJSONStore) LoadAsset(assetID string) (*model.Asset, error) {
	return s.assets.load(assetID)
}

func (s *AssetJSONStore) DeleteAsset(assetID string) error {
	return s.assets.delete(assetID)
}

func (s *AssetJSONStore) ReadAllAssets() ([]*model.Asset, error) {
	return s.assets.readAll()
}
