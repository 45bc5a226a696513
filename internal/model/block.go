package model

import (
	"html/template"
	"time"
)

// CopyTextPluginID is the plugin id of the copy text block, also used as its theme hook.
const CopyTextPluginID = "mj_block_copy_text"

// TextColor is the color of the copy text.
type TextColor string

const (
	TextColorBlack  TextColor = "black"
	TextColorWhite  TextColor = "white"
	TextColorRed    TextColor = "red"
	TextColorYellow TextColor = "yellow"
)

// TextWidth controls whether the text spans the region or a contained column.
type TextWidth string

const (
	TextWidthFull      TextWidth = "full"
	TextWidthContained TextWidth = "contained"
)

// BlockState is the configuration lifecycle of a block instance.
type BlockState string

const (
	// StateUnset is a freshly placed block that has never been submitted.
	StateUnset BlockState = "unset"
	// StateConfigured is a block with at least one successful submit.
	StateConfigured BlockState = "configured"
)

// RichText is a text value paired with the id of the format used to render it.
type RichText struct {
	Value  string `json:"value"`
	Format string `json:"format"`
}

// CopyTextConfig holds the admin-entered settings of a copy text block.
// Zero values mean "not set"; defaults are applied when the block is built.
type CopyTextConfig struct {
	TextColor     TextColor `json:"text_color,omitempty"`
	TextWidth     TextWidth `json:"text_width,omitempty"`
	CopyText      RichText  `json:"copy_text"`
	UseBackground bool      `json:"use_background"`
	Image         string    `json:"image,omitempty"`         // Media asset id
	ImageOpacity  string    `json:"image_opacity,omitempty"` // Kept as entered, e.g. "0.5"
}

// Block is a placed instance of the copy text block, including its metadata
// stored in the corresponding JSON file.
type Block struct {
	ID          string         `json:"id"`
	Plugin      string         `json:"plugin"`
	Label       string         `json:"label"`
	Region      string         `json:"region"`
	Weight      int            `json:"weight"`
	State       BlockState     `json:"state"`
	CreatedAt   time.Time      `json:"createdAt"`
	LastUpdated time.Time      `json:"lastUpdated"`
	Settings    CopyTextConfig `json:"settings"`
}

// Configured reports whether the block has been submitted at least once.
func (b *Block) Configured() bool {
	return b.State == StateConfigured
}

// DisplayModel is the flat, template-agnostic view of a copy text block for one render.
type DisplayModel struct {
	TextColor     TextColor
	TextWidth     TextWidth
	Text          template.HTML
	UseBackground bool
	Image         string // Public URL, empty when no image resolves
	ImageOpacity  string
	ID            string // DOM id unique within the render pass
}

// RenderArray pairs a display model with the theme hook that renders it.
type RenderArray struct {
	Theme string
	CT    DisplayModel
}
