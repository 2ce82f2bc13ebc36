// Package index extracts configured fields from trees of DICOM files and
// persists them to a searchable store.
package index

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
)

//go:embed default-config.yaml
var defaultConfig []byte

// Level names one of the three index tables.
type Level string

const (
	Studies   Level = "studies"
	Series    Level = "series"
	Instances Level = "instances"
)

// KeyField returns the UID keyword that keys the level's table.
func (l Level) KeyField() string {
	switch l {
	case Studies:
		return "StudyInstanceUID"
	case Series:
		return "SeriesInstanceUID"
	default:
		return "SOPInstanceUID"
	}
}

// parents returns the UID keywords of the enclosing levels. They are
// always indexed so that series and instances can be selected by their
// study/series path segments.
func (l Level) parents() []string {
	switch l {
	case Series:
		return []string{"StudyInstanceUID"}
	case Instances:
		return []string{"StudyInstanceUID", "SeriesInstanceUID"}
	default:
		return nil
	}
}

// Levels lists the three levels in hierarchy order.
var Levels = []Level{Studies, Series, Instances}

// Fields lists the keywords indexed per level.
type Fields struct {
	Studies   []string `yaml:"studies"`
	Series    []string `yaml:"series"`
	Instances []string `yaml:"instances"`
}

// Indexing is the `indexing:` section of the config file.
type Indexing struct {
	Fields Fields `yaml:"fields"`
}

// Config drives both the scanner and the query service schema.
type Config struct {
	Indexing  Indexing `yaml:"indexing"`
	TableName string   `yaml:"table_name"`
	// StoreOverwrite is read from store_overwrite. Nothing in this
	// repository consults it: storage requests are answered with 501.
	StoreOverwrite bool `yaml:"store_overwrite"`
}

// LoadConfig resolves and parses the configuration: the explicit path if
// given, otherwise $XDG_CONFIG_HOME/rdicom/config.yaml, otherwise the
// embedded default.
func LoadConfig(path string) (*Config, error) {
	content := defaultConfig
	if path != "" {
		var err error
		content, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if xdg := xdgConfigPath(); xdg != "" {
		if b, err := os.ReadFile(xdg); err == nil && len(b) > 0 {
			content = b
		}
	}
	return ParseConfig(content)
}

func xdgConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "rdicom", "config.yaml")
}

// ParseConfig parses and validates YAML configuration bytes.
func ParseConfig(content []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.TableName == "" {
		cfg.TableName = "dicom_index"
	}
	for _, level := range Levels {
		for _, field := range cfg.fieldList(level) {
			if _, err := tag.Find(field); err != nil {
				return nil, fmt.Errorf("config field %q (%s): %w", field, level, err)
			}
		}
	}
	return &cfg, nil
}

func (c *Config) fieldList(l Level) []string {
	switch l {
	case Studies:
		return c.Indexing.Fields.Studies
	case Series:
		return c.Indexing.Fields.Series
	default:
		return c.Indexing.Fields.Instances
	}
}

// FieldsFor returns the columns of a level's table: the level's UID key,
// the parent UIDs, then the configured fields, deduplicated in that
// order.
func (c *Config) FieldsFor(l Level) []string {
	seen := map[string]bool{}
	var out []string
	add := func(fields ...string) {
		for _, f := range fields {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	add(l.KeyField())
	add(l.parents()...)
	add(c.fieldList(l)...)
	return out
}

// IndexableFields returns the union of every level's fields, in
// studies/series/instances order, deduplicated.
func (c *Config) IndexableFields() []string {
	seen := map[string]bool{}
	var out []string
	for _, l := range Levels {
		for _, f := range c.FieldsFor(l) {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// IsIndexed reports whether a keyword is a column of the level's table.
func (c *Config) IsIndexed(l Level, keyword string) bool {
	for _, f := range c.FieldsFor(l) {
		if f == keyword {
			return true
		}
	}
	return false
}
