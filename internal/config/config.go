package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. MJBLOCKS_SERVER_ADMIN_PORT.
const EnvPrefix = "MJBLOCKS"

// Config aggregates application settings that may be sourced from a file or environment variables.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Media   MediaConfig   `mapstructure:"media"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	I18n    I18nConfig    `mapstructure:"i18n"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	PublicPort int `mapstructure:"public_port"`
	AdminPort  int `mapstructure:"admin_port"`
}

// StorageConfig locates the JSON records.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// BlocksDir is where block records live.
func (s StorageConfig) BlocksDir() string { return filepath.Join(s.DataDir, "blocks") }

// AssetsDir is where media asset records live.
func (s StorageConfig) AssetsDir() string { return filepath.Join(s.DataDir, "assets") }

// MediaConfig contains the public file area settings.
type MediaConfig struct {
	FilesDir string `mapstructure:"files_dir"`
	BaseURL  string `mapstructure:"base_url"`
}

// ThemeConfig points at an optional directory of template overrides.
type ThemeConfig struct {
	Dir string `mapstructure:"dir"`
}

// I18nConfig selects the interface language.
type I18nConfig struct {
	Locale       string `mapstructure:"locale"`
	Translations string `mapstructure:"translations"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from defaults, an optional file and environment
// variables, in increasing priority. An empty path looks for mjblocks.yaml in
// the working directory and carries on without it.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("mjblocks")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.public_port", 8080)
	v.SetDefault("server.admin_port", 8081)
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("media.files_dir", filepath.Join("data", "files"))
	v.SetDefault("media.base_url", "/files")
	v.SetDefault("theme.dir", "")
	v.SetDefault("i18n.locale", "en")
	v.SetDefault("i18n.translations", "")
	v.SetDefault("log.level", "info")
}

func validate(cfg Config) error {
	if cfg.Server.PublicPort <= 0 {
		return errors.New("public port must be positive")
	}
	if cfg.Server.AdminPort <= 0 {
		return errors.New("admin port must be positive")
	}
	if cfg.Server.PublicPort == cfg.Server.AdminPort {
		return errors.New("public and admin ports must differ")
	}
	if cfg.Storage.DataDir == "" {
		return errors.New("storage data dir is required")
	}
	if cfg.Media.FilesDir == "" {
		return errors.New("media files dir is required")
	}
	if _, err := cfg.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses the configured level ("debug", "info", "warn", "error").
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return level, nil
}

// NewLogger builds the text logger used by every command.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.Log.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
