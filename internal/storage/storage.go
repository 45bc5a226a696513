package storage

import (
	"errors"
	"os"

	"mj-blocks/internal/model"
)

// BlockStore defines the operations needed for persisting placed blocks.
// This allows swapping implementations (e.g., JSON files vs. database) later.
type BlockStore interface {
	// SaveBlock persists the block, replacing any previous version.
	SaveBlock(block *model.Block) error

	// LoadBlock retrieves a block by its ID.
	LoadBlock(blockID string) (*model.Block, error)

	// GetAllBlockIDs returns a list of all known block IDs.
	GetAllBlockIDs() ([]string, error)

	// DeleteBlock removes a block. Deleting an unknown block is not an error.
	DeleteBlock(blockID string) error

	// ReadAll retrieves all blocks.
	ReadAll() ([]*model.Block, error)

	// GetBasePath returns the storage base path.
	GetBasePath() string
}

// AssetStore persists media asset records.
type AssetStore interface {
	SaveAsset(asset *model.Asset) error
	LoadAsset(assetID string) (*model.Asset, error)
	DeleteAsset(assetID string) error
	ReadAllAssets() ([]*model.Asset, error)
}

var (
	// ErrInvalidID is returned for ids that cannot be used as file names.
	ErrInvalidID = errors.New("invalid id")
	// ErrBlockNotFound is returned by LoadBlock for unknown blocks.
	ErrBlockNotFound = errors.New("block not found")
)

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
