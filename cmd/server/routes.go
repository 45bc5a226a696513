package main

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mj-blocks/internal/blockmanager"
	"mj-blocks/internal/storage"
	"mj-blocks/internal/theme"
)

// stylesheetURL is where the block stylesheet is served.
const stylesheetURL = "/theme/copy-text.css"

// application holds the application-wide dependencies.
type application struct {
	logger   *slog.Logger
	manager  *blockmanager.Manager
	theme    *theme.Engine
	filesDir string
	lang     string
}

// routes sets up the public HTTP router.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Handle("/theme/*", http.StripPrefix("/theme/", http.FileServer(http.FS(theme.Static()))))
	if app.filesDir != "" {
		r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(app.filesDir))))
	}

	r.Get("/", app.handleRootRequest)
	r.Get("/regions/{region}", app.handleRegionRequest)
	r.Get("/blocks/{blockID}", app.handleBlockRequest)

	return r
}

// handleRootRequest renders the default region.
func (app *application) handleRootRequest(w http.ResponseWriter, r *http.Request) {
	app.renderRegion(w, r, blockmanager.DefaultRegion)
}

// handleRegionRequest renders every block placed in a region.
func (app *application) handleRegionRequest(w http.ResponseWriter, r *http.Request) {
	app.renderRegion(w, r, chi.URLParam(r, "region"))
}

func (app *application) renderRegion(w http.ResponseWriter, r *http.Request, region string) {
	blocks, err := app.manager.RenderRegion(region)
	if err != nil {
		app.logger.Error("Error rendering region", "region", region, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	// htmx swaps only the blocks into an existing page
	if r.Header.Get("HX-Request") == "true" {
		for _, b := range blocks {
			w.Write([]byte(b))
			w.Write([]byte("\n"))
		}
		return
	}

	var buf bytes.Buffer
	err = app.theme.RenderPage(&buf, theme.PageData{
		Lang:          app.lang,
		Title:         titleFor(region),
		Region:        region,
		StylesheetURL: stylesheetURL,
		Blocks:        blocks,
	})
	if err != nil {
		app.logger.Error("Error executing page template", "region", region, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	buf.WriteTo(w)
}

// handleBlockRequest returns the markup of one block, without a page around it.
func (app *application) handleBlockRequest(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "blockID")

	html, err := app.manager.Render(blockID, nil)
	if err != nil {
		if errors.Is(err, storage.ErrBlockNotFound) || errors.Is(err, storage.ErrInvalidID) {
			http.NotFound(w, r)
			return
		}
		app.logger.Error("Error rendering block", "blockID", blockID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func titleFor(region string) string {
	if region == "" {
		return "Home"
	}
	return strings.ToUpper(region[:1]) + region[1:]
}
