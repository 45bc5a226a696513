// Package textformat renders rich text values according to their named text format.
package textformat

import (
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// Built-in format ids.
const (
	Standard  = "mj_tf_standard"
	Markdown  = "markdown"
	PlainText = "plain_text"
	FullHTML  = "full_html"
)

// ErrUnknownFormat is returned when a value names a format that is not registered.
var ErrUnknownFormat = errors.New("unknown text format")

// Filter turns a raw text value into markup.
type Filter func(value string) string

// Registry maps format ids to their filters.
type Registry struct {
	mu      sync.RWMutex
	filters map[string]Filter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{filters: make(map[string]Filter)}
}

// NewDefaultRegistry returns a registry holding the built-in formats.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Standard, standardFilter())
	r.Register(Markdown, markdownFilter())
	r.Register(PlainText, plainTextFilter)
	r.Register(FullHTML, func(v string) string { return v })
	return r
}

// Register adds or replaces the filter for format.
func (r *Registry) Register(format string, f Filter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters[format] = f
}

// Formats lists the registered format ids in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.filters))
	for id := range r.filters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Render filters value with the named format.
func (r *Registry) Render(value, format string) (template.HTML, error) {
	r.mu.RLock()
	f, ok := r.filters[format]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return template.HTML(f(value)), nil
}

// standardFilter allows the usual editorial markup and strips everything else.
func standardFilter() Filter {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.RequireNoFollowOnLinks(false)
	return p.Sanitize
}

func markdownFilter() Filter {
	p := bluemonday.UGCPolicy()
	return func(v string) string {
		// Parsers keep state, so each call needs its own.
		md := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
		renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
		out := markdown.ToHTML([]byte(v), md, renderer)
		return string(p.SanitizeBytes(out))
	}
}

func plainTextFilter(v string) string {
	v = strings.ReplaceAll(strings.TrimSpace(v), "\r\n", "\n")
	if v == "" {
		return ""
	}
	var b strings.Builder
	for _, para := range strings.Split(v, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		lines := strings.Split(para, "\n")
		for i, l := range lines {
			lines[i] = template.HTMLEscapeString(l)
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br>\n"))
		b.WriteString("</p>\n")
	}
	return b.String()
}
