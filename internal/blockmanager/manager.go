package blockmanager

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"mj-blocks/internal/copytext"
	"mj-blocks/internal/htmlid"
	"mj-blocks/internal/model"
	"mj-blocks/internal/storage"
	"mj-blocks/internal/theme"
)

// DefaultRegion receives blocks created without a region.
const DefaultRegion = "content"

// ErrEmptyLabel is returned when a block is created without a label.
var ErrEmptyLabel = errors.New("block label cannot be empty")

// Options wires a Manager to its collaborators.
type Options struct {
	Store      storage.BlockStore
	Media      copytext.MediaResolver
	URLs       copytext.URLGenerator
	Text       copytext.TextRenderer
	Translator copytext.Translator
	Theme      *theme.Engine
	Logger     *slog.Logger
}

// Manager provides methods for managing placed copy text blocks
// (create, configure, render, delete). Both the admin server and the CLI use it.
type Manager struct {
	store  storage.BlockStore
	media  copytext.MediaResolver
	urls   copytext.URLGenerator
	text   copytext.TextRenderer
	form   *copytext.FormDescriptor
	theme  *theme.Engine
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a new Manager instance.
func NewManager(o Options) *Manager {
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		store:  o.Store,
		media:  o.Media,
		urls:   o.URLs,
		text:   o.Text,
		form:   copytext.NewFormDescriptor(o.Translator),
		theme:  o.Theme,
		logger: logger,
		now:    time.Now,
	}
}

// Create places a new, unconfigured copy text block in region.
func (m *Manager) Create(label, region string) (*model.Block, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyLabel
	}
	region = strings.TrimSpace(region)
	if region == "" {
		region = DefaultRegion
	}
	m.logger.Info("Creating block", "label", label, "region", region)

	now := m.now()
	block := &model.Block{
		ID:          uuid.New().String(),
		Plugin:      model.CopyTextPluginID,
		Label:       label,
		Region:      region,
		State:       model.StateUnset,
		CreatedAt:   now,
		LastUpdated: now,
	}
	if err := m.store.SaveBlock(block); err != nil {
		m.logger.Error("Error saving new block", "label", label, "error", err)
		return nil, fmt.Errorf("saving block failed: %w", err)
	}

	m.logger.Info("Successfully created block", "blockID", block.ID, "label", label)
	return block, nil
}

// Get loads one block.
func (m *Manager) Get(blockID string) (*model.Block, error) {
	block, err := m.store.LoadBlock(blockID)
	if err != nil {
		return nil, fmt.Errorf("loading block %s: %w", blockID, err)
	}
	return block, nil
}

// List returns every block, ordered by region, then weight, then label.
func (m *Manager) List() ([]*model.Block, error) {
	blocks, err := m.store.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("listing blocks: %w", err)
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Region != blocks[j].Region {
			return blocks[i].Region < blocks[j].Region
		}
		return less(blocks[i], blocks[j])
	})
	return blocks, nil
}

// Regions returns the distinct regions that hold at least one block, sorted.
func (m *Manager) Regions() ([]string, error) {
	blocks, err := m.List()
	if err != nil {
		return nil, err
	}
	var regions []string
	for _, b := range blocks {
		if len(regions) == 0 || regions[len(regions)-1] != b.Region {
			regions = append(regions, b.Region)
		}
	}
	return regions, nil
}

// Form returns the settings form of a block, prefilled from its stored settings.
func (m *Manager) Form(blockID string) (copytext.FormSpec, error) {
	block, err := m.Get(blockID)
	if err != nil {
		return copytext.FormSpec{}, err
	}
	return m.form.Describe(block.Settings), nil
}

// Submit validates v, commits it to the block settings and saves the block.
// On validation failure the stored block is left untouched and the returned
// error is a copytext.ValidationErrors.
func (m *Manager) Submit(blockID string, v copytext.Values) (*model.Block, error) {
	block, err := m.Get(blockID)
	if err != nil {
		return nil, err
	}

	if err := copytext.Validate(v, m.formats()...); err != nil {
		m.logger.Info("Rejected block settings", "blockID", blockID, "error", err)
		return nil, err
	}

	copytext.Commit(&block.Settings, v)
	block.State = model.StateConfigured
	block.LastUpdated = m.now()

	if err := m.store.SaveBlock(block); err != nil {
		m.logger.Error("Error saving block settings", "blockID", blockID, "error", err)
		return nil, fmt.Errorf("saving block %s failed: %w", blockID, err)
	}
	m.logger.Info("Successfully configured block", "blockID", blockID)
	return block, nil
}

// formats lists the text formats the renderer can handle, if it can tell.
func (m *Manager) formats() []string {
	if fl, ok := m.text.(interface{ Formats() []string }); ok {
		return fl.Formats()
	}
	return nil
}

// Place updates the label, region and weight of a block. Empty strings and a
// nil weight keep the current value.
func (m *Manager) Place(blockID, label, region string, weight *int) (*model.Block, error) {
	block, err := m.Get(blockID)
	if err != nil {
		return nil, err
	}

	changed := false
	if label = strings.TrimSpace(label); label != "" && label != block.Label {
		m.logger.Debug("Updating Label", "blockID", blockID, "old", block.Label, "new", label)
		block.Label = label
		changed = true
	}
	if region = strings.TrimSpace(region); region != "" && region != block.Region {
		m.logger.Debug("Updating Region", "blockID", blockID, "old", block.Region, "new", region)
		block.Region = region
		changed = true
	}
	if weight != nil && *weight != block.Weight {
		m.logger.Debug("Updating Weight", "blockID", blockID, "old", block.Weight, "new", *weight)
		block.Weight = *weight
		changed = true
	}
	if !changed {
		m.logger.Info("No placement values changed", "blockID", blockID)
		return block, nil
	}

	block.LastUpdated = m.now()
	if err := m.store.SaveBlock(block); err != nil {
		return nil, fmt.Errorf("saving block %s failed: %w", blockID, err)
	}
	return block, nil
}

// Render builds and renders one block. Blocks rendered on the same page must
// share pass so their element ids stay unique; a nil pass starts a new one.
func (m *Manager) Render(blockID string, pass *htmlid.Pass) (template.HTML, error) {
	block, err := m.Get(blockID)
	if err != nil {
		return "", err
	}
	if pass == nil {
		pass = htmlid.NewPass()
	}
	return m.render(block, m.builder(pass))
}

// RenderRegion renders every block of region in display order, in one id pass.
func (m *Manager) RenderRegion(region string) ([]template.HTML, error) {
	blocks, err := m.List()
	if err != nil {
		return nil, err
	}

	b := m.builder(htmlid.NewPass())
	out := make([]template.HTML, 0, len(blocks))
	for _, block := range blocks {
		if block.Region != region {
			continue
		}
		html, err := m.render(block, b)
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}

// Delete removes a block.
func (m *Manager) Delete(blockID string) error {
	m.logger.Info("Processing delete request", "blockID", blockID)
	if _, err := m.Get(blockID); err != nil {
		m.logger.Warn("Block not found, cannot delete", "blockID", blockID, "error", err)
		return err
	}
	if err := m.store.DeleteBlock(blockID); err != nil {
		m.logger.Error("Error deleting block", "blockID", blockID, "error", err)
		return fmt.Errorf("deleting block %s failed: %w", blockID, err)
	}
	m.logger.Info("Successfully deleted block", "blockID", blockID)
	return nil
}

func (m *Manager) builder(pass *htmlid.Pass) *copytext.Builder {
	return copytext.NewBuilder(copytext.Deps{
		Media:  m.media,
		URLs:   m.urls,
		Text:   m.text,
		IDs:    pass,
		Logger: m.logger,
	})
}

func (m *Manager) render(block *model.Block, b *copytext.Builder) (template.HTML, error) {
	if block.Plugin != "" && block.Plugin != model.CopyTextPluginID {
		return "", fmt.Errorf("block %s: unsupported plugin %q", block.ID, block.Plugin)
	}
	if m.theme == nil {
		return "", fmt.Errorf("block %s: no theme engine configured", block.ID)
	}
	html, err := m.theme.RenderHTML(b.BuildRenderArray(block.Settings))
	if err != nil {
		m.logger.Error("Error rendering block", "blockID", block.ID, "error", err)
		return "", fmt.Errorf("rendering block %s: %w", block.ID, err)
	}
	return html, nil
}

func less(a, b *model.Block) bool {
	if a.Weight != b.Weight {
		return a.Weight < b.Weight
	}
	return a.Label < b.Label
}
