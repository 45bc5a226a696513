package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"mj-blocks/internal/blockmanager"
	"mj-blocks/internal/copytext"
	"mj-blocks/internal/model"
	"mj-blocks/internal/storage"
	"mj-blocks/internal/theme"
)

// maxUploadSize bounds media uploads.
const maxUploadSize = 10 << 20

// DashboardPageData holds the data for the dashboard content block.
type DashboardPageData struct {
	Blocks  []*model.Block
	Regions []string
	Assets  []*model.Asset
	Error   string
}

// BlockFormPageData holds the data for the block settings form.
type BlockFormPageData struct {
	Block  *model.Block
	Fields []fieldView
	Format string
}

// render executes a cached page through layout.html.
func (app *adminApplication) render(w http.ResponseWriter, status int, page string, data map[string]any) {
	ts, ok := app.templateCache[page]
	if !ok {
		app.logger.Error("Template not found in cache", "template", page)
		http.Error(w, "Internal Server Error - Template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := ts.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		app.logger.Error("Error executing admin layout template", "template", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// redirectWith redirects to path with a flash message in the query string.
func redirectWith(w http.ResponseWriter, r *http.Request, path, key, message string) {
	target := path
	if message != "" {
		target = fmt.Sprintf("%s?%s=%s", path, key, url.QueryEscape(message))
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// hxMessage answers an htmx request with a toast event instead of a page.
func hxMessage(w http.ResponseWriter, message, kind, redirect string) {
	payload, _ := json.Marshal(map[string]any{
		"showMessage": map[string]string{"message": message, "type": kind},
	})
	w.Header().Set("HX-Trigger", string(payload))
	if redirect != "" {
		w.Header().Set("HX-Redirect", redirect)
	} else {
		w.Header().Set("HX-Reswap", "none")
	}
	w.WriteHeader(http.StatusOK)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// dashboardHandler lists every placed block and the media library.
func (app *adminApplication) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	data := app.newTemplateData(r, "dashboard")
	pageData := DashboardPageData{}

	blocks, err := app.manager.List()
	if err != nil {
		app.logger.Error("Failed to read blocks from store", "error", err)
		pageData.Error = "Failed to load block list."
	} else {
		pageData.Blocks = blocks
		for _, b := range blocks {
			if n := len(pageData.Regions); n == 0 || pageData.Regions[n-1] != b.Region {
				pageData.Regions = append(pageData.Regions, b.Region)
			}
		}
	}

	assets, err := app.media.List()
	if err != nil {
		app.logger.Error("Failed to read media library", "error", err)
	}
	pageData.Assets = assets

	data["Page"] = pageData
	app.render(w, http.StatusOK, "dashboard.html", data)
}

// blockCreateHandler places a new block and opens its settings form.
func (app *adminApplication) blockCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.logger.Error("Error parsing create block form", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	label := r.PostForm.Get("label")
	region := r.PostForm.Get("region")

	block, err := app.manager.Create(label, region)
	if err != nil {
		if errors.Is(err, blockmanager.ErrEmptyLabel) {
			redirectWith(w, r, "/", "error", "Block label is required.")
			return
		}
		app.logger.Error("Error creating block via manager", "error", err, "label", label)
		redirectWith(w, r, "/", "error", fmt.Sprintf("Failed to create block '%s'.", label))
		return
	}
	http.Redirect(w, r, "/admin/blocks/"+block.ID+"/edit", http.StatusSeeOther)
}

// loadBlock fetches the block named in the URL, writing the error response itself.
func (app *adminApplication) loadBlock(w http.ResponseWriter, r *http.Request) (*model.Block, bool) {
	blockID := chi.URLParam(r, "blockID")
	block, err := app.manager.Get(blockID)
	if err != nil {
		if errors.Is(err, storage.ErrBlockNotFound) || errors.Is(err, storage.ErrInvalidID) {
			http.NotFound(w, r)
			return nil, false
		}
		app.logger.Error("Failed to load block", "blockID", blockID, "error", err)
		http.Error(w, "Failed to load block data", http.StatusInternalServerError)
		return nil, false
	}
	return block, true
}

// blockEditFormHandler shows the settings form prefilled from the stored settings.
func (app *adminApplication) blockEditFormHandler(w http.ResponseWriter, r *http.Request) {
	block, ok := app.loadBlock(w, r)
	if !ok {
		return
	}
	spec, err := app.manager.Form(block.ID)
	if err != nil {
		app.logger.Error("Failed to describe block form", "blockID", block.ID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	app.renderForm(w, r, http.StatusOK, block, spec, nil)
}

// blockEditHandler validates and stores submitted settings. Invalid input
// re-renders the form with the submitted values and the field errors.
func (app *adminApplication) blockEditHandler(w http.ResponseWriter, r *http.Request) {
	block, ok := app.loadBlock(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		app.logger.Error("Error parsing block settings form", "blockID", block.ID, "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	values := valuesFromForm(r.PostForm)
	// The settings form fixes the text format; others were never offered.
	err := copytext.Validate(values, copytext.DefaultFormat)
	if err == nil {
		_, err = app.manager.Submit(block.ID, values)
	}
	if err != nil {
		var verrs copytext.ValidationErrors
		if errors.As(err, &verrs) {
			submitted := block.Settings
			copytext.Commit(&submitted, values)
			spec := copytext.NewFormDescriptor(app.translator).Describe(submitted)
			app.renderForm(w, r, http.StatusUnprocessableEntity, block, spec, verrs)
			return
		}
		app.logger.Error("Error saving block settings", "blockID", block.ID, "error", err)
		redirectWith(w, r, "/admin/blocks/"+block.ID+"/edit", "error", "Failed to save settings.")
		return
	}
	redirectWith(w, r, "/admin/blocks/"+block.ID+"/edit", "msg", "Settings saved.")
}

func (app *adminApplication) renderForm(w http.ResponseWriter, r *http.Request, status int, block *model.Block, spec copytext.FormSpec, errs copytext.ValidationErrors) {
	assets, err := app.media.List(model.ImageBundle)
	if err != nil {
		app.logger.Error("Failed to read media library", "error", err)
	}

	format := copytext.DefaultFormat
	if f, ok := spec.Field(copytext.KeyCopyText); ok && f.Format != "" {
		format = f.Format
	}

	data := app.newTemplateData(r, "edit")
	data["Page"] = BlockFormPageData{
		Block:  block,
		Fields: fieldViews(spec, errs, assets),
		Format: format,
	}
	if len(errs) > 0 {
		data["PageError"] = "Please correct the errors below."
	}
	app.render(w, status, "block_form.html", data)
}

// blockPreviewHandler renders the stored block alone in a themed page.
func (app *adminApplication) blockPreviewHandler(w http.ResponseWriter, r *http.Request) {
	block, ok := app.loadBlock(w, r)
	if !ok {
		return
	}
	html, err := app.manager.Render(block.ID, nil)
	if err != nil {
		app.logger.Error("Failed to render block preview", "blockID", block.ID, "error", err)
		http.Error(w, "Internal Server Error - Preview failed", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = app.theme.RenderPage(&buf, theme.PageData{
		Title:         "Preview: " + block.Label,
		Region:        block.Region,
		StylesheetURL: "/theme/copy-text.css",
		Blocks:        []template.HTML{html},
	})
	if err != nil {
		app.logger.Error("Failed to render preview page", "blockID", block.ID, "error", err)
		http.Error(w, "Internal Server Error - Preview failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// blockDeleteHandler removes a block.
func (app *adminApplication) blockDeleteHandler(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "blockID")

	err := app.manager.Delete(blockID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrBlockNotFound) || errors.Is(err, storage.ErrInvalidID) {
			status = http.StatusNotFound
		}
		app.logger.Error("Error deleting block via manager", "blockID", blockID, "error", err)
		if isHTMX(r) {
			hxMessage(w, "Failed to delete block.", "error", "")
			return
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	if isHTMX(r) {
		hxMessage(w, "Block deleted.", "success", "/")
		return
	}
	redirectWith(w, r, "/", "msg", "Block deleted.")
}

// mediaUploadHandler imports an uploaded image into the media library.
// When the form names a block, the user returns to that block's settings.
func (app *adminApplication) mediaUploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		app.logger.Warn("Error parsing media upload", "error", err)
		http.Error(w, "Bad Request - Invalid upload", http.StatusBadRequest)
		return
	}

	back := "/"
	if blockID := r.PostForm.Get("blockID"); blockID != "" {
		back = "/admin/blocks/" + url.PathEscape(blockID) + "/edit"
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		redirectWith(w, r, back, "error", "Choose a file to upload.")
		return
	}
	defer file.Close()

	asset, err := app.media.ImportReader(file, header.Filename, model.ImageBundle)
	if err != nil {
		app.logger.Warn("Rejected media upload", "filename", header.Filename, "error", err)
		redirectWith(w, r, back, "error", fmt.Sprintf("Could not import %s: %v", header.Filename, err))
		return
	}
	app.logger.Info("Imported media", "assetID", asset.ID, "filename", asset.Filename)
	redirectWith(w, r, back, "msg", fmt.Sprintf("Uploaded %s.", asset.Filename))
}
