// Package container wires the stores, media library, text formats, theme and
// block manager from a loaded configuration.
package container

import (
	"fmt"
	"log/slog"

	"mj-blocks/internal/blockmanager"
	"mj-blocks/internal/config"
	"mj-blocks/internal/i18n"
	"mj-blocks/internal/media"
	"mj-blocks/internal/storage"
	"mj-blocks/internal/textformat"
	"mj-blocks/internal/theme"
)

// Container holds the singleton services shared by the commands.
type Container struct {
	Config     *config.Config
	Logger     *slog.Logger
	Blocks     *storage.JSONStore
	Media      *media.Library
	URLs       *media.URLGenerator
	Formats    *textformat.Registry
	Translator *i18n.Translator
	Theme      *theme.Engine
	Manager    *blockmanager.Manager
}

// New creates and wires every service described by cfg.
func New(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	blocks, err := storage.NewJSONStore(cfg.Storage.BlocksDir(), logger)
	if err != nil {
		return nil, fmt.Errorf("initializing block store: %w", err)
	}
	assets, err := storage.NewAssetJSONStore(cfg.Storage.AssetsDir(), logger)
	if err != nil {
		return nil, fmt.Errorf("initializing asset store: %w", err)
	}
	library, err := media.NewLibrary(assets, cfg.Media.FilesDir, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing media library: %w", err)
	}

	var extra map[string]string
	if cfg.I18n.Translations != "" {
		extra, err = i18n.LoadFile(cfg.I18n.Translations)
		if err != nil {
			return nil, err
		}
	}
	translator, err := i18n.New(cfg.I18n.Locale, extra)
	if err != nil {
		return nil, err
	}

	engine, err := theme.NewEngine(cfg.Theme.Dir)
	if err != nil {
		return nil, fmt.Errorf("initializing theme: %w", err)
	}

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Blocks:     blocks,
		Media:      library,
		URLs:       media.NewURLGenerator(cfg.Media.BaseURL),
		Formats:    textformat.NewDefaultRegistry(),
		Translator: translator,
		Theme:      engine,
	}
	c.Manager = blockmanager.NewManager(blockmanager.Options{
		Store:      c.Blocks,
		Media:      c.Media,
		URLs:       c.URLs,
		Text:       c.Formats,
		Translator: c.Translator,
		Theme:      c.Theme,
		Logger:     logger,
	})
	return c, nil
}
