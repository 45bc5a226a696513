// Package copytext implements the copy text block: building its display model,
// describing its settings form, and committing submitted settings.
//
// The package never talks to storage, the filesystem, or the network itself.
// Everything it needs from the host comes in through the interfaces in deps.go.
package copytext

import "mj-blocks/internal/model"

// Defaults for every optional setting. Both the builder and the form read these,
// so a change here needs no stored-data migration.
const (
	DefaultTextColor     = model.TextColorBlack
	DefaultTextWidth     = model.TextWidthFull
	DefaultFormat        = "mj_tf_standard"
	DefaultUseBackground = false
	DefaultImageOpacity  = "1"

	// IDPrefix is the prefix for the DOM id of every rendered copy text block.
	IDPrefix = "copy-text"
)

// Normalize returns a copy of cfg with every unset field replaced by its default.
// The image stays empty when unset; there is no default asset.
func Normalize(cfg model.CopyTextConfig) model.CopyTextConfig {
	if cfg.TextColor == "" {
		cfg.TextColor = DefaultTextColor
	}
	if cfg.TextWidth == "" {
		cfg.TextWidth = DefaultTextWidth
	}
	if cfg.CopyText.Format == "" {
		cfg.CopyText.Format = DefaultFormat
	}
	if cfg.ImageOpacity == "" {
		cfg.ImageOpacity = DefaultImageOpacity
	}
	return cfg
}

// TextColors lists the allowed text colors in form order.
func TextColors() []model.TextColor {
	return []model.TextColor{
		model.TextColorBlack,
		model.TextColorWhite,
		model.TextColorRed,
		model.TextColorYellow,
	}
}

// TextWidths lists the allowed text widths in form order.
func TextWidths() []model.TextWidth {
	return []model.TextWidth{model.TextWidthFull, model.TextWidthContained}
}
