// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config loads bore settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/boreapps/bore/internal/domain"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "BORE_CONFIG"

// Config holds every setting. Zero values are replaced by defaults.
type Config struct {
	CatalogPath         string `toml:"catalog_path"`
	IconsDir            string `toml:"icons_dir"`
	DownloadDir         string `toml:"download_dir"`
	InstallerExtension  string `toml:"installer_extension"`
	DefaultMode         string `toml:"default_mode"`
	NotificationSeconds int    `toml:"notification_seconds"`
	HTTPTimeoutSeconds  int    `toml:"http_timeout_seconds"`
	HistoryPath         string `toml:"history_path"`
	BaselinePath        string `toml:"baseline_path"`
}

// Default returns the built-in settings. Relative paths resolve against the
// working directory, like the app list next to the executable.
func Default() Config {
	return Config{
		CatalogPath:         "apps.json",
		IconsDir:            "icons",
		DownloadDir:         "installers",
		InstallerExtension:  ".exe",
		DefaultMode:         string(domain.ModeAuto),
		NotificationSeconds: 4,
		HTTPTimeoutSeconds:  30,
		HistoryPath:         filepath.Join(StateDir(), "history.db"),
	}
}

// DefaultPath returns $BORE_CONFIG or $XDG_CONFIG_HOME/bore/config.toml.
func DefaultPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}

	return filepath.Join(GetXDGConfigHome(), AppName, "config.toml")
}

// Load reads the file at path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	// #nosec G304 - Config path comes from the user
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.merge(file)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// merge copies the non-zero settings of other into c.
func (c *Config) merge(other Config) {
	setString := func(dst *string, src string) {
		if strings.TrimSpace(src) != "" {
			*dst = ExpandPath(strings.TrimSpace(src))
		}
	}

	setString(&c.CatalogPath, other.CatalogPath)
	setString(&c.IconsDir, other.IconsDir)
	setString(&c.DownloadDir, other.DownloadDir)
	setString(&c.InstallerExtension, other.InstallerExtension)
	setString(&c.DefaultMode, other.DefaultMode)
	setString(&c.HistoryPath, other.HistoryPath)
	setString(&c.BaselinePath, other.BaselinePath)

	if other.NotificationSeconds != 0 {
		c.NotificationSeconds = other.NotificationSeconds
	}

	if other.HTTPTimeoutSeconds != 0 {
		c.HTTPTimeoutSeconds = other.HTTPTimeoutSeconds
	}
}

// Validate checks the settings that have a fixed set of values.
func (c Config) Validate() error {
	if _, err := domain.ParseInstallMode(c.DefaultMode); err != nil {
		return err
	}

	if c.NotificationSeconds < 0 {
		return &domain.ValidationError{Field: "notification_seconds", Message: "notification_seconds must not be negative"}
	}

	if c.HTTPTimeoutSeconds < 0 {
		return &domain.ValidationError{Field: "http_timeout_seconds", Message: "http_timeout_seconds must not be negative"}
	}

	if ext := c.InstallerExtension; ext != "" && !strings.HasPrefix(ext, ".") {
		return &domain.ValidationError{Field: "installer_extension", Message: "installer_extension must start with a dot"}
	}

	return nil
}

// Mode returns the default install mode.
func (c Config) Mode() domain.InstallMode {
	mode, err := domain.ParseInstallMode(c.DefaultMode)
	if err != nil {
		return domain.ModeAuto
	}

	return mode
}

// NotificationDuration returns how long notifications stay visible.
func (c Config) NotificationDuration() time.Duration {
	return time.Duration(c.NotificationSeconds) * time.Second
}

// HTTPTimeout returns the connect and header timeout for downloads.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Baseline returns the configured baseline path, or one derived from the
// catalog path so that each catalog keeps its own default snapshot.
func (c Config) Baseline() string {
	if c.BaselinePath != "" {
		return c.BaselinePath
	}

	abs, err := filepath.Abs(c.CatalogPath)
	if err != nil {
		abs = c.CatalogPath
	}

	hash := fnv.New64a()
	_, _ = hash.Write([]byte(abs))

	name := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))

	return filepath.Join(StateDir(), "baselines", fmt.Sprintf("%s-%016x.json", name, hash.Sum64()))
}

// Encode renders the settings as TOML.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
