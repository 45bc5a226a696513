package main

import (
	"embed"
	"flag"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/justinas/nosurf"

	"mj-blocks/internal/blockmanager"
	"mj-blocks/internal/config"
	"mj-blocks/internal/container"
	"mj-blocks/internal/copytext"
	"mj-blocks/internal/media"
	"mj-blocks/internal/theme"
)

//go:embed templates/*.html
var adminTemplates embed.FS

//go:embed static
var adminStatic embed.FS

// adminApplication holds the application-wide dependencies for the admin server.
type adminApplication struct {
	logger        *slog.Logger
	manager       *blockmanager.Manager
	media         *media.Library
	theme         *theme.Engine
	filesDir      string
	translator    copytext.Translator
	templateCache map[string]*template.Template
}

// newTemplateData creates a map of data to pass to templates, including CSRF token and active nav item.
func (app *adminApplication) newTemplateData(r *http.Request, activeNav string) map[string]any {
	return map[string]any{
		"CSRFToken":   nosurf.Token(r),
		"ActiveNav":   activeNav,
		"CurrentYear": time.Now().Year(),
		"PageError":   r.URL.Query().Get("error"),
		"PageSuccess": r.URL.Query().Get("msg"),
	}
}

func newTemplateCache() (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	// Pages define the "content" block that layout.html expects.
	pages := []string{
		"dashboard.html",
		"block_form.html",
	}

	for _, page := range pages {
		ts, err := template.New(page).ParseFS(adminTemplates, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("error parsing page template %s: %w", page, err)
		}
		cache[page] = ts
	}
	return cache, nil
}

func main() {
	configPath := flag.String("config", "", "Path to a config file (default: ./mjblocks.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stdout)

	c, err := container.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	templateCache, err := newTemplateCache()
	if err != nil {
		logger.Error("Failed to create template cache", "error", err)
		os.Exit(1)
	}
	logger.Info("Admin UI templates cached successfully")

	app := &adminApplication{
		logger:        logger,
		manager:       c.Manager,
		media:         c.Media,
		theme:         c.Theme,
		filesDir:      cfg.Media.FilesDir,
		translator:    c.Translator,
		templateCache: templateCache,
	}

	addr := fmt.Sprintf(":%d", cfg.Server.AdminPort)
	logger.Info("Starting admin server", "address", fmt.Sprintf("http://localhost%s", addr))

	srv := &http.Server{
		Addr:              addr,
		Handler:           app.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Admin server failed to start", "error", err)
		os.Exit(1)
	}
}
