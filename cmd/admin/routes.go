package main

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/justinas/nosurf"

	"mj-blocks/internal/theme"
)

// routes sets up the HTTP router for the admin application, behind CSRF protection.
func (app *adminApplication) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// --- Static files ---
	static, err := fs.Sub(adminStatic, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Handle("/theme/*", http.StripPrefix("/theme/", http.FileServer(http.FS(theme.Static()))))
	if app.filesDir != "" {
		app.logger.Info("Serving media files", "path", app.filesDir, "url_prefix", "/files")
		r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(app.filesDir))))
	}

	// --- Handlers ---
	r.Get("/", app.dashboardHandler)

	r.Post("/admin/blocks/new", app.blockCreateHandler)
	r.Route("/admin/blocks/{blockID}", func(r chi.Router) {
		r.Get("/edit", app.blockEditFormHandler)
		r.Post("/edit", app.blockEditHandler)
		r.Get("/preview", app.blockPreviewHandler)
		r.Post("/delete", app.blockDeleteHandler)
	})

	r.Post("/admin/media", app.mediaUploadHandler)

	csrf := nosurf.New(r)
	csrf.SetBaseCookie(http.Cookie{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	csrf.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.Warn("CSRF check failed", "path", r.URL.Path, "reason", nosurf.Reason(r))
		http.Error(w, "Forbidden - CSRF token invalid", http.StatusForbidden)
	}))
	return csrf
}
