package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config stores repository-local settings.
type Config struct {
	// Identity is the fixed author/committer string recorded in commits,
	// in "Name <email>" form.
	Identity string `toml:"identity"`
	// DefaultBranch names the branch HEAD points at after init/clone.
	DefaultBranch string `toml:"default_branch"`
}

// DefaultConfig returns the compiled-in settings used when no config file
// exists.
func DefaultConfig() *Config {
	return &Config{
		Identity:      "Gat <gat@localhost>",
		DefaultBranch: "main",
	}
}

func (r *Repo) configPath() string {
	return filepath.Join(r.GitDir, "gat.toml")
}

// ReadConfig reads .git/gat.toml. A missing file returns the defaults;
// fields left unset in the file keep their default values.
func (r *Repo) ReadConfig() (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(r.configPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("read config: unmarshal: %w", err)
	}
	if strings.TrimSpace(cfg.Identity) == "" {
		cfg.Identity = DefaultConfig().Identity
	}
	if strings.TrimSpace(cfg.DefaultBranch) == "" {
		cfg.DefaultBranch = DefaultConfig().DefaultBranch
	}
	return cfg, nil
}

// WriteConfig atomically writes .git/gat.toml.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tmp, err := os.CreateTemp(r.GitDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, r.configPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}
