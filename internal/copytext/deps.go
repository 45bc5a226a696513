package copytext

import (
	"html/template"
	"io"
	"log/slog"

	"mj-blocks/internal/model"
)

// MediaResolver looks up a media asset by id.
// A missing asset is reported as an error; the builder treats any error as "no image".
type MediaResolver interface {
	Resolve(assetID string) (model.FileHandle, error)
}

// URLGenerator turns a storage URI into a publicly servable URL.
type URLGenerator interface {
	PublicURL(uri string) (string, error)
}

// TextRenderer renders a rich text value with the named format into safe markup.
type TextRenderer interface {
	Render(value, format string) (template.HTML, error)
}

// Translator translates user interface strings.
type Translator interface {
	T(s string) string
}

// UniqueIDGenerator hands out DOM ids that do not collide within one render pass.
type UniqueIDGenerator interface {
	UniqueID(prefix string) string
}

// Deps bundles the collaborators a Builder needs.
type Deps struct {
	Media  MediaResolver
	URLs   URLGenerator
	Text   TextRenderer
	IDs    UniqueIDGenerator
	Logger *slog.Logger
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
