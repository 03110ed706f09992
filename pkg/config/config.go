package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aretw0/scorm"
	"github.com/aretw0/scorm/pkg/rules"
	"github.com/aretw0/scorm/pkg/variant/scorm12"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for a configuration file.
const DefaultPath = "scorm.yaml"

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Store selects and configures the commit store.
type Store struct {
	Kind   string        `mapstructure:"kind" yaml:"kind" json:"kind"`
	Path   string        `mapstructure:"path" yaml:"path,omitempty" json:"path,omitempty"`
	Addr   string        `mapstructure:"addr" yaml:"addr,omitempty" json:"addr,omitempty"`
	Prefix string        `mapstructure:"prefix" yaml:"prefix,omitempty" json:"prefix,omitempty"`
	TTL    time.Duration `mapstructure:"ttl" yaml:"ttl,omitempty" json:"ttl,omitempty"`
}

// File is the structure of scorm.yaml.
type File struct {
	Variant       string         `mapstructure:"variant" yaml:"variant" json:"variant"`
	Settings      scorm.Settings `mapstructure:"settings" yaml:"settings" json:"settings"`
	Rules         []rules.Rule   `mapstructure:"rules" yaml:"rules,omitempty" json:"rules,omitempty"`
	Store         Store          `mapstructure:"store" yaml:"store" json:"store"`
	EncryptionKey string         `mapstructure:"encryption_key" yaml:"encryption_key,omitempty" json:"encryption_key,omitempty"`
	Redact        []string       `mapstructure:"redact" yaml:"redact,omitempty" json:"redact,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() File {
	return File{
		Variant:  scorm12.Name,
		Settings: scorm.DefaultSettings(),
		Store:    Store{Kind: StoreMemory},
	}
}

// Load reads a configuration file (YAML or JSON) over the defaults. A missing file
// yields the defaults.
func Load(path string) (File, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return File{}, fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return File{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return File{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           &cfg,
	})
	if err != nil {
		return File{}, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return File{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings, the store kind and the encryption key.
func (f File) Validate() error {
	if err := f.Settings.Validate(); err != nil {
		return err
	}
	switch f.Store.Kind {
	case StoreMemory, StoreFile, StoreSQLite:
	case StoreRedis:
		if f.Store.Addr == "" {
			return fmt.Errorf("store.addr is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store kind %q", f.Store.Kind)
	}
	for _, p := range f.Redact {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
	}
	if _, err := f.Key(); err != nil {
		return err
	}
	return nil
}

// Key decodes the base64 encryption key. It returns nil when none is configured.
func (f File) Key() ([]byte, error) {
	if f.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(f.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption_key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption_key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// Validator compiles the configured rules. It returns nil when there are none.
func (f File) Validator() (*rules.Set, error) {
	if len(f.Rules) == 0 {
		return nil, nil
	}
	return rules.Compile(f.Rules)
}
