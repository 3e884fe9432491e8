package config

import (
	"strings"

	"github.com/arthur-debert/relocate/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// Config is the effective configuration of a run.
type Config struct {
	Paths    PathsConfig    `koanf:"paths" toml:"paths"`
	Classify ClassifyConfig `koanf:"classify" toml:"classify"`
	Migrate  MigrateConfig  `koanf:"migrate" toml:"migrate"`
	Relink   RelinkConfig   `koanf:"relink" toml:"relink"`
}

// PathsConfig holds the deployment-specific path conventions.
type PathsConfig struct {
	RootMarker     string `koanf:"root_marker" toml:"root_marker"`
	AbsolutePrefix string `koanf:"absolute_prefix" toml:"absolute_prefix"`
	Anchor         string `koanf:"anchor" toml:"anchor"`
	DirExpression  string `koanf:"dir_expression" toml:"dir_expression"`
}

// ClassifyConfig configures core file detection.
type ClassifyConfig struct {
	CoreMarker string `koanf:"core_marker" toml:"core_marker"`
	Window     int    `koanf:"window" toml:"window"`
}

// MigrateConfig configures the tree migration.
type MigrateConfig struct {
	Extensions   []string `koanf:"extensions" toml:"extensions"`
	BackupSuffix string   `koanf:"backup_suffix" toml:"backup_suffix"`
	FailFast     bool     `koanf:"fail_fast" toml:"fail_fast"`
}

// RelinkConfig configures the symlink repair.
type RelinkConfig struct {
	FailFast bool `koanf:"fail_fast" toml:"fail_fast"`
}

// Validate checks the invariants the rest of the program relies on.
func (c *Config) Validate() error {
	marker := c.Paths.RootMarker
	switch {
	case marker == "":
		return invalid("paths.root_marker", "must not be empty")
	case !strings.HasPrefix(marker, "/"):
		return invalid("paths.root_marker", "must start with '/'")
	case c.Paths.AbsolutePrefix == "":
		return invalid("paths.absolute_prefix", "must not be empty")
	case !strings.Contains(c.Paths.Anchor, marker):
		return invalid("paths.anchor", "must contain the root marker "+marker)
	case c.Classify.CoreMarker == "":
		return invalid("classify.core_marker", "must not be empty")
	case c.Classify.Window <= 0:
		return invalid("classify.window", "must be positive")
	case len(c.Migrate.Extensions) == 0:
		return invalid("migrate.extensions", "must list at least one extension")
	case c.Migrate.BackupSuffix == "":
		return invalid("migrate.backup_suffix", "must not be empty")
	}

	for _, ext := range c.Migrate.Extensions {
		if ext == "" || strings.ContainsRune(ext, '/') {
			return invalid("migrate.extensions", "invalid extension "+ext)
		}
	}
	return nil
}

func invalid(key, reason string) error {
	return errors.Newf(errors.ErrConfigValid, "%s %s", key, reason).
		WithDetail("key", key)
}

// ToTOML renders the configuration as a TOML document.
func (c *Config) ToTOML() (string, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return string(out), nil
}
