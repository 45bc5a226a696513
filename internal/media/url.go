package media

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// PublicScheme is the storage scheme for files served from the public files directory.
const PublicScheme = "public://"

// ErrUnsupportedScheme is returned for storage URIs that have no public URL.
var ErrUnsupportedScheme = errors.New("unsupported storage scheme")

// URLGenerator maps storage URIs to URLs under a public base URL.
type URLGenerator struct {
	base string
}

// NewURLGenerator creates a generator for base, e.g. "https://site/files" or "/files".
func NewURLGenerator(base string) *URLGenerator {
	return &URLGenerator{base: strings.TrimRight(base, "/")}
}

// PublicURL returns the URL for uri. Absolute http(s) URLs are returned as is;
// public:// paths are escaped segment by segment and joined to the base.
func (g *URLGenerator) PublicURL(uri string) (string, error) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri, nil
	}
	rel, ok := strings.CutPrefix(uri, PublicScheme)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, uri)
	}
	rel = strings.TrimLeft(rel, "/")
	if rel == "" {
		return "", fmt.Errorf("empty path in storage URI %q", uri)
	}
	segments := strings.Split(rel, "/")
	for i, s := range segments {
		if s == ".." || s == "." {
			return "", fmt.Errorf("relative segment in storage URI %q", uri)
		}
		segments[i] = url.PathEscape(s)
	}
	return g.base + "/" + strings.Join(segments, "/"), nil
}
