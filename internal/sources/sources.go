// Package sources loads the static feed registry: every source has a
// name, an endpoint URL and a region label used for grouping.
package sources

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

type Source struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Region string `yaml:"region"`
}

// Config is the YAML registry structure
// sources:
//   - name: BBC World
//     url: http://feeds.bbci.co.uk/news/world/rss.xml
//     region: EMEA
type Config struct {
	Sources []Source `yaml:"sources"`
}

// Load reads the source registry from a YAML file. A malformed registry
// is a startup error; the process must not run without one.
func Load(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources config: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse sources config: %w", err)
	}
	if err := validate(cfg.Sources); err != nil {
		return nil, err
	}
	return cfg.Sources, nil
}

func validate(srcs []Source) error {
	if len(srcs) == 0 {
		return fmt.Errorf("sources config contains no sources")
	}
	seen := make(map[string]struct{}, len(srcs))
	for i, s := range srcs {
		if s.Name == "" {
			return fmt.Errorf("source %d has no name", i)
		}
		if s.Region == "" {
			return fmt.Errorf("source %q has no region", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("source %q has invalid url %q", s.Name, s.URL)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate source name %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}
