package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"mj-blocks/internal/model"
)

// Helper function to create a sample block for testing
func createSampleBlock(id, label string) *model.Block {
	now := time.Now().UTC()
	return &model.Block{
		ID:          id,
		Plugin:      model.CopyTextPluginID,
		Label:       label,
		Region:      "content",
		State:       model.StateConfigured,
		CreatedAt:   now,
		LastUpdated: now,
		Settings: model.CopyTextConfig{
			TextColor:     model.TextColorRed,
			TextWidth:     model.TextWidthContained,
			CopyText:      model.RichText{Value: "<p>Hi</p>", Format: "mj_tf_standard"},
			UseBackground: true,
			Image:         "42",
			ImageOpacity:  "0.5",
		},
	}
}

func truncateTimes(b *model.Block) {
	b.CreatedAt = b.CreatedAt.Truncate(time.Second)
	b.LastUpdated = b.LastUpdated.Truncate(time.Second)
}

func TestNewJSONStore(t *testing.T) {
	tempDir := t.TempDir() // Creates a temporary directory for the test
	blocksPath := filepath.Join(tempDir, ".test_blocks")

	store, err := NewJSONStore(blocksPath, nil)
	if err != nil {
		t.Fatalf("NewJSONStore() failed: %v", err)
	}

	// Check if the base directory was created
	if _, err := os.Stat(blocksPath); os.IsNotExist(err) {
		t.Errorf("NewJSONStore() did not create the base directory: %s", blocksPath)
	}

	if store.GetBasePath() != blocksPath {
		t.Errorf("GetBasePath() returned %q, want %q", store.GetBasePath(), blocksPath)
	}
}

func TestSaveLoadBlock(t *testing.T) {
	store, err := NewJSONStore(filepath.Join(t.TempDir(), ".test_blocks"), nil)
	if err != nil {
		t.Fatalf("NewJSONStore() failed: %v", err)
	}

	blockID := "test-save-load-123"
	original := createSampleBlock(blockID, "SaveLoad Test Block")

	if err := store.SaveBlock(original); err != nil {
		t.Fatalf("SaveBlock() failed: %v", err)
	}

	expectedFilePath := filepath.Join(store.GetBasePath(), blockID+".json")
	if _, err := os.Stat(expectedFilePath); os.IsNotExist(err) {
		t.Fatalf("SaveBlock() did not create the expected file: %s", expectedFilePath)
	}

	loaded, err := store.LoadBlock(blockID)
	if err != nil {
		t.Fatalf("LoadBlock() failed: %v", err)
	}

	// Monotonic clock readings do not survive JSON, compare at second precision
	truncateTimes(original)
	truncateTimes(loaded)

	if !reflect.DeepEqual(original, loaded) {
		t.Errorf("LoadBlock() loaded block does not match original.\nOriginal: %+v\nLoaded:   %+v", original, loaded)
	}
}

func TestLoadBlock_NotFound(t *testing.T) {
	store, err := NewJSONStore(filepath.Join(t.TempDir(), ".test_blocks"), nil)
	if err != nil {
		t.Fatalf("NewJSONStore() failed: %v", err)
	}

	_, err = store.LoadBlock("does-not-exist-456")
	if err == nil {
		t.Fatal("LoadBlock() succeeded for non-existent ID, expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("LoadBlock() returned error %q, expected an error wrapping os.ErrNotExist", err)
	}
	if !errors.Is(err, ErrBlockNotFound) {
		t.Errorf("LoadBlock() returned error %q, expected ErrBlockNotFound", err)
	}
}

func TestInvalidIDs(t *testing.T) {
	store, err := NewJSONStore(filepath.Join(t.TempDir(), ".test_blocks"), nil)
	if err != nil {
		t.Fatalf("NewJSONStore() failed: %v", err)
	}

	for _, id := range []string{"", "../escape", "a/b", "dot.json"} {
		if _, err := store.LoadBlock(id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("LoadBlock(%q) error = %v, want ErrInvalidID", id, err)
		}
		if err := store.SaveBlock(&model.Block{ID: id}); !errors.Is(err, ErrInvalidID) {
			t.Errorf("SaveBlock(%q) error = %v, want ErrInvalidID", id, err)
		}
	}
}

func TestDeleteBlock(t *testing.T) {
	store, err := NewJSONStore(filepath.Join(t.TempDir(), ".test_blocks"), nil)
	if err != nil {
		t.Fatalf("NewJSONStore() failed: %v", err)
	}

	blockID := "test-delete-789"
	if err := store.SaveBlock(createSampleBlock(blockID, "Delete Test Block")); err != nil {
		t.Fatalf("Setup failed: SaveBlock() failed: %v", err)
	}

	if err := store.DeleteBlock(blockID); err != nil {
		t.Fatalf("DeleteBlock() failed: %v", err)
	}

	if _, err := store.LoadBlock(blockID); !IsNotFound(err) {
		t.Errorf("LoadBlock() after delete returned error %v, expected not found", err)
	}

	// Deleting again is not an error
	if err := store.DeleteBlock(blockID); err != nil {
		t.Errorf("second DeleteBlock() failed: %v", err)
	}
}

func TestReadAll(t *testing.T) {
	store, err := NewJSONStore(filepath.Join(t.TempDir(), ".test_blocks"), nil)
	if err != nil {
		t.Fatalf("NewJSONStore() failed: %v", err)
	}

	saved := make(map[string]*model.Block)
	for _, b := range []*model.Block{
		createSampleBlock("b1", "Block One"),
		createSampleBlock("b2", "Block Two"),
		createSampleBlock("b3", "Block Three"),
	} {
		if err := store.SaveBlock(b); err != nil {
			t.Fatalf("Setup failed: SaveBlock() failed for %s: %v", b.ID, err)
		}
		truncateTimes(b)
		saved[b.ID] = b
	}

	loaded, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if len(loaded) != len(saved) {
		t.Fatalf("ReadAll() returned %d blocks, want %d", len(loaded), len(saved))
	}

	for _, b := range loaded {
		original, ok := saved[b.ID]
		if !ok {
			t.Errorf("ReadAll() loaded unexpected block ID: %s", b.ID)
			continue
		}
		truncateTimes(b)
		if !reflect.DeepEqual(original, b) {
			t.Errorf("ReadAll() loaded block %s does not match original.\nOriginal: %+v\nLoaded:   %+v", b.ID, original, b)
		}
	}
}

func TestAssetStore(t *testing.T) {
	store, err := NewAssetJSONStore(filepath.Join(t.TempDir(), "assets"), nil)
	if err != nil {
		t.Fatalf("NewAssetJSONStore() failed: %v", err)
	}

	asset := &model.Asset{ID: "42", Bundle: model.ImageBundle, Filename: "bg.png", URI: "public://bg.png"}
	if err := store.SaveAsset(asset); err != nil {
		t.Fatalf("SaveAsset() failed: %v", err)
	}

	loaded, err := store.LoadAsset("42")
	if err != nil {
		t.Fatalf("LoadAsset() failed: %v", err)
	}
	if loaded.URI != asset.URI || loaded.Bundle != asset.Bundle {
		t.Errorf("LoadAsset() = %+v, want %+v", loaded, asset)
	}

	all, err := store.ReadAllAssets()
	if err != nil || len(all) != 1 {
		t.Fatalf("ReadAllAssets() = %d assets, err %v; want 1, nil", len(all), err)
	}

	if err := store.DeleteAsset("42"); err != nil {
		t.Fatalf("DeleteAsset() failed: %v", err)
	}
	if _, err := store.LoadAsset("42"); !IsNotFound(err) {
		t.Errorf("LoadAsset() after delete error = %v, want not found", err)
	}
}
