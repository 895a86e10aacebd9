package rss

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var defaultFeeds []byte

// Source is one named feed endpoint.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Topics holds the two keyword sets that define relevance.
type Topics struct {
	AI            []string `yaml:"ai"`
	Accessibility []string `yaml:"accessibility"`
}

// FeedsConfig is YAML config structure
// sources:
//   - name: ...
//     url: https://...
// topics:
//   ai: [...]
//   accessibility: [...]
type FeedsConfig struct {
	Sources []Source `yaml:"sources"`
	Topics  Topics   `yaml:"topics"`
}

// DefaultFeeds returns the built-in source registry and keyword sets.
func DefaultFeeds() (*FeedsConfig, error) {
	return decodeFeeds(defaultFeeds)
}

// LoadFeeds reads the source registry from a YAML file. A missing file yields
// the built-in defaults; any other read or parse error is returned.
func LoadFeeds(path string) (*FeedsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultFeeds()
		}
		return nil, fmt.Errorf("reading feeds config: %w", err)
	}

	cfg, err := decodeFeeds(data)
	if err != nil {
		return nil, fmt.Errorf("feeds config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeFeeds(data []byte) (*FeedsConfig, error) {
	var cfg FeedsConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing feeds config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every source has a unique name and an http(s) URL, and
// that both keyword sets are non-empty.
func (c *FeedsConfig) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	seen := make(map[string]struct{}, len(c.Sources))
	for i, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("source %q: duplicate name", s.Name)
		}
		seen[s.Name] = struct{}{}

		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
	}
	if len(c.Topics.AI) == 0 || len(c.Topics.Accessibility) == 0 {
		return fmt.Errorf("both topic keyword sets (ai, accessibility) must be non-empty")
	}
	return nil
}
