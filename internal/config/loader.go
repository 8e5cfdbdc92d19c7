package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvCasesFile   = "CASETRACK_CASES_FILE"
	EnvHistoryFile = "CASETRACK_HISTORY_FILE"
	EnvBaseURL     = "CASETRACK_BASE_URL"
	EnvChromePath  = "CASETRACK_CHROME_PATH"
)

// SearchNames are the config files Find looks for, in order.
var SearchNames = []string{"casetrack.yaml", "casetrack.yml", "casetrack.toml", "casetrack.json"}

// LoadFile reads a config file on top of Defaults. The format follows the
// extension (.yaml/.yml, .toml, .json); other extensions are detected from
// content.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data on top of Defaults. ext is a format hint such as
// ".toml"; empty means detect: JSON when it starts with '{', YAML otherwise.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Defaults()
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = decodeYAML(data, cfg)
	case ".toml":
		if err = toml.Unmarshal(data, cfg); err != nil {
			err = fmt.Errorf("parse config toml: %w", err)
		}
	case ".json":
		err = decodeJSON(data, cfg)
	default:
		if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
			err = decodeJSON(data, cfg)
		} else {
			err = decodeYAML(data, cfg)
		}
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

func decodeJSON(data []byte, cfg *Config) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config json: %w", err)
	}
	return nil
}

// Find returns the first of SearchNames present in dir, or "".
func Find(dir string) string {
	for _, name := range SearchNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load resolves the effective configuration: path when given (it must
// exist), otherwise a discovered file in dir, otherwise Defaults; then
// environment overrides.
func Load(path, dir string) (*Config, error) {
	if path == "" {
		path = Find(dir)
	}
	cfg := Defaults()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv overrides settings from the CASETRACK_* variables that lookup
// reports as set and non-empty.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for name, dst := range map[string]*string{
		EnvCasesFile:   &c.Cases,
		EnvHistoryFile: &c.History,
		EnvBaseURL:     &c.Browser.BaseURL,
		EnvChromePath:  &c.Browser.ChromePath,
	} {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
}

// LoadDotEnv loads variables from the given .env files (".env" when none)
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
