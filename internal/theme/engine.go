package theme

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"mj-blocks/internal/model"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

//go:embed static/*.css
var static embed.FS

// PageTemplate is the template that wraps the blocks of a region into a document.
const PageTemplate = "page"

// PageData holds the data passed to the page template.
type PageData struct {
	Lang          string
	Title         string
	Region        string
	StylesheetURL string
	Blocks        []template.HTML
}

// Engine renders render arrays through their theme hook templates.
type Engine struct {
	set *template.Template
}

// NewEngine parses the built-in templates, then any *.html in overrideDir.
// A file in overrideDir that defines an existing template replaces it.
func NewEngine(overrideDir string) (*Engine, error) {
	set, err := template.New("theme").ParseFS(defaultTemplates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in templates: %w", err)
	}

	if overrideDir != "" {
		files, err := filepath.Glob(filepath.Join(overrideDir, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("error finding override templates in %s: %w", overrideDir, err)
		}
		if len(files) > 0 {
			set, err = set.ParseFiles(files...)
			if err != nil {
				return nil, fmt.Errorf("failed to parse override templates from %s: %w", overrideDir, err)
			}
		}
	}
	return &Engine{set: set}, nil
}

// Has reports whether a template for the hook is defined.
func (e *Engine) Has(hook string) bool {
	return e.set.Lookup(hook) != nil
}

// Render writes the markup for ra.
func (e *Engine) Render(w io.Writer, ra model.RenderArray) error {
	if !e.Has(ra.Theme) {
		return fmt.Errorf("no template defined for theme hook %q", ra.Theme)
	}
	if err := e.set.ExecuteTemplate(w, ra.Theme, ra); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", ra.Theme, err)
	}
	return nil
}

// RenderHTML renders ra into a string of trusted markup.
func (e *Engine) RenderHTML(ra model.RenderArray) (template.HTML, error) {
	var buf bytes.Buffer
	if err := e.Render(&buf, ra); err != nil {
		return "", err
	}
	return template.HTML(strings.TrimSpace(buf.String())), nil
}

// RenderPage writes a full document around already rendered blocks.
func (e *Engine) RenderPage(w io.Writer, data PageData) error {
	if data.Lang == "" {
		data.Lang = "en"
	}
	if err := e.set.ExecuteTemplate(w, PageTemplate, data); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", PageTemplate, err)
	}
	return nil
}

// Static returns the built-in stylesheets, rooted at their file names.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return sub
}

// DefaultTemplate returns the source of a built-in template file, e.g. "mj_block_copy_text.html".
func DefaultTemplate(name string) ([]byte, error) {
	return defaultTemplates.ReadFile("templates/" + name)
}

// DefaultTemplateNames lists the built-in template files.
func DefaultTemplateNames() ([]string, error) {
	entries, err := defaultTemplates.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
