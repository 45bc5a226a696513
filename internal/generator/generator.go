package generator

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"mj-blocks/internal/theme"
	"mj-blocks/pkg/fsutils"
)

// ErrExists is returned when a scaffolded file is already present and Force is off.
var ErrExists = errors.New("file already exists")

// Config holds the configuration for theme scaffolding.
type Config struct {
	BaseDir      string                 // Theme override directory (e.g., "theme")
	DefaultFiles map[string]FileContent // Map of filename to its content and target subdir
	Force        bool                   // Overwrite files that already exist
	Logger       *slog.Logger
}

// FileContent defines the content and target subdirectory for a default file.
type FileContent struct {
	Content string
	SubDir  string // Relative path from the theme root, "" for the root itself
}

const translationsExample = `# Extra translations merged over the built-in catalog.
# Keys are the English source strings.
"Copy Text Color": ""
"The width of the text": ""
"Use a background image?": ""
"Image Opacity": ""
`

// DefaultThemeConfig copies every built-in template into baseDir, plus an
// example translations file.
func DefaultThemeConfig(baseDir string) (Config, error) {
	names, err := theme.DefaultTemplateNames()
	if err != nil {
		return Config{}, fmt.Errorf("failed to list built-in templates: %w", err)
	}
	files := make(map[string]FileContent, len(names)+1)
	for _, name := range names {
		content, err := theme.DefaultTemplate(name)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read built-in template %s: %w", name, err)
		}
		files[name] = FileContent{Content: string(content)}
	}
	files["translations.example.yaml"] = FileContent{Content: translationsExample, SubDir: "i18n"}

	return Config{BaseDir: baseDir, DefaultFiles: files}, nil
}

// ScaffoldTheme writes the configured files under cfg.BaseDir and returns the
// paths it wrote, sorted.
func ScaffoldTheme(cfg Config) ([]string, error) {
	if cfg.BaseDir == "" {
		return nil, fmt.Errorf("theme directory cannot be empty")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	names := make([]string, 0, len(cfg.DefaultFiles))
	for name := range cfg.DefaultFiles {
		names = append(names, name)
	}
	sort.Strings(names)

	written := make([]string, 0, len(names))
	for _, name := range names {
		fileInfo := cfg.DefaultFiles[name]
		dir := filepath.Join(cfg.BaseDir, fileInfo.SubDir)
		if err := fsutils.CreateDir(dir); err != nil {
			return written, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		filePath := filepath.Join(dir, name)
		if err := writeFile(filePath, []byte(fileInfo.Content), cfg.Force); err != nil {
			return written, err
		}
		logger.Info("Created file", "path", filePath)
		written = append(written, filePath)
	}
	return written, nil
}

var nonHookChars = regexp.MustCompile(`[^a-z0-9_]+`)

// sanitizeHookName turns a name into a theme hook, e.g. "Hero Banner" -> "hero_banner".
func sanitizeHookName(name string) string {
	hook := nonHookChars.ReplaceAllString(strings.ToLower(name), "_")
	hook = strings.Trim(hook, "_")
	if hook == "" || (hook[0] >= '0' && hook[0] <= '9') {
		hook = "hook_" + hook
	}
	return hook
}

// AddTemplate writes a stub template for a new theme hook into themeDir and
// returns the hook name it defines.
func AddTemplate(themeDir, name string, force bool) (string, error) {
	hook := sanitizeHookName(name)
	content := fmt.Sprintf(`{{ define %q }}
<div class="%s" id="{{ .CT.ID }}">
    {{ .CT.Text }}
</div>
{{ end }}
`, hook, strings.ReplaceAll(hook, "_", "-"))

	if err := fsutils.CreateDir(themeDir); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", themeDir, err)
	}
	if err := writeFile(filepath.Join(themeDir, hook+".html"), []byte(content), force); err != nil {
		return "", err
	}
	return hook, nil
}

func writeFile(path string, content []byte, force bool) error {
	if force {
		if err := fsutils.WriteToFile(path, content); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
		return nil
	}
	if err := fsutils.CreateFile(path, content); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	return nil
}
