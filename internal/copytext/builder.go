package copytext

import (
	"html/template"
	"log/slog"

	"mj-blocks/internal/htmlid"
	"mj-blocks/internal/model"
)

// Builder turns a stored copy text configuration into a display model.
// A Builder is meant to live for one render pass; its id generator decides
// the scope in which block ids stay unique.
type Builder struct {
	media  MediaResolver
	urls   URLGenerator
	text   TextRenderer
	ids    UniqueIDGenerator
	logger *slog.Logger
}

// NewBuilder creates a Builder. A nil id generator gets a fresh pass and a nil
// logger discards output; a nil media resolver or text renderer degrades to an
// empty image or empty text.
func NewBuilder(d Deps) *Builder {
	if d.IDs == nil {
		d.IDs = htmlid.NewPass()
	}
	if d.Logger == nil {
		d.Logger = discardLogger()
	}
	return &Builder{
		media:  d.Media,
		urls:   d.URLs,
		text:   d.Text,
		ids:    d.IDs,
		logger: d.Logger,
	}
}

// Build assembles the display model for cfg. It never fails: missing settings
// fall back to their defaults and an unresolvable image becomes an empty URL.
func (b *Builder) Build(cfg model.CopyTextConfig) model.DisplayModel {
	n := Normalize(cfg)

	return model.DisplayModel{
		TextColor:     n.TextColor,
		TextWidth:     n.TextWidth,
		Text:          b.renderText(n.CopyText),
		UseBackground: n.UseBackground,
		Image:         b.imageURL(n.Image),
		ImageOpacity:  n.ImageOpacity,
		ID:            b.ids.UniqueID(IDPrefix),
	}
}

// BuildRenderArray wraps the display model under the copy text theme hook.
func (b *Builder) BuildRenderArray(cfg model.CopyTextConfig) model.RenderArray {
	return model.RenderArray{
		Theme: model.CopyTextPluginID,
		CT:    b.Build(cfg),
	}
}

func (b *Builder) imageURL(assetID string) string {
	if assetID == "" || b.media == nil {
		return ""
	}
	handle, err := b.media.Resolve(assetID)
	if err != nil {
		b.logger.Debug("Background image not resolved, rendering without it", "assetID", assetID, "error", err)
		return ""
	}
	if b.urls == nil {
		return handle.URI
	}
	url, err := b.urls.PublicURL(handle.URI)
	if err != nil {
		b.logger.Debug("No public URL for background image", "assetID", assetID, "uri", handle.URI, "error", err)
		return ""
	}
	return url
}

func (b *Builder) renderText(rt model.RichText) template.HTML {
	if b.text == nil {
		return ""
	}
	out, err := b.text.Render(rt.Value, rt.Format)
	if err != nil {
		b.logger.Warn("Copy text could not be rendered", "format", rt.Format, "error", err)
		return ""
	}
	return out
}
