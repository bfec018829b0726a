// Package config loads the readmars YAML configuration.
package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/robert-malhotra/go-readmars/internal/camera"
	"github.com/robert-malhotra/go-readmars/mars"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// DefaultGanymedBase is where processed summary files live on the cluster.
const DefaultGanymedBase = "/gpfs0/fact/processing/data.r18753/ganymed_run/"

type Config struct {
	Backend         string   `yaml:"backend"`
	PixelMap        string   `yaml:"pixel_map"`
	StatusName      string   `yaml:"status_name"`
	IncludeOverflow *bool    `yaml:"include_overflow"`
	ExcludedClasses []string `yaml:"excluded_classes"`
	VectorPrefixes  []string `yaml:"vector_prefixes"`
	GanymedBase     string   `yaml:"ganymed_base"`
	Tree            string   `yaml:"tree"`
	Export          Export   `yaml:"export"`
}

type Export struct {
	EventsTable string `yaml:"events_table"`
	StatusTable string `yaml:"status_table"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = "yaml"
	}
	if c.StatusName == "" {
		c.StatusName = mars.DefaultStatusName
	}
	if c.IncludeOverflow == nil {
		include := true
		c.IncludeOverflow = &include
	}
	if len(c.VectorPrefixes) == 0 {
		c.VectorPrefixes = []string{"MSignalCam"}
	}
	if c.GanymedBase == "" {
		c.GanymedBase = DefaultGanymedBase
	}
	if c.Tree == "" {
		c.Tree = "Events"
	}
	if c.Export.EventsTable == "" {
		c.Export.EventsTable = "events"
	}
	if c.Export.StatusTable == "" {
		c.Export.StatusTable = "status"
	}
}

func (c *Config) validate() error {
	if strings.ContainsAny(c.Tree, "/ \t") {
		return fmt.Errorf("tree %q is not a valid tree name", c.Tree)
	}
	for _, p := range c.VectorPrefixes {
		if p == "" {
			return fmt.Errorf("vector_prefixes must not contain empty prefixes")
		}
	}
	if c.Export.EventsTable == c.Export.StatusTable {
		return fmt.Errorf("export.events_table and export.status_table must differ")
	}
	return nil
}

// LoadPixelMap fetches the configured CHID/softID table. Without one the
// built-in map is returned.
func (c *Config) LoadPixelMap(ctx context.Context, fs afs.Service) (*camera.Map, error) {
	if c.PixelMap == "" {
		return camera.Default(), nil
	}
	raw, err := fs.DownloadWithURL(ctx, c.PixelMap)
	if err != nil {
		return nil, fmt.Errorf("downloading pixel map %s: %w", c.PixelMap, err)
	}
	m, err := camera.LoadPixelMap(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.PixelMap, err)
	}
	return m, nil
}

// Options converts the configuration into mars options. pixels may be nil
// for the built-in map.
func (c *Config) Options(pixels *camera.Map) []mars.Option {
	return []mars.Option{
		mars.WithStatusName(c.StatusName),
		mars.WithOverflow(*c.IncludeOverflow),
		mars.WithExcludedClasses(c.ExcludedClasses...),
		mars.WithVectorPrefixes(c.VectorPrefixes...),
		mars.WithPixelMap(pixels),
	}
}
