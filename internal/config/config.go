// Package config loads the refzone configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/matsen/refzone/internal/linker"
	"github.com/matsen/refzone/internal/query"
	"github.com/matsen/refzone/internal/record"
	"github.com/matsen/refzone/internal/zone"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "refzone"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
)

// Search backends.
const (
	BackendISTEX      = "istex"
	BackendOpenSearch = "opensearch"
)

// ErrInvalid is returned for a configuration that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full configuration, stored in ~/.config/refzone/config.yml.
type Config struct {
	Zone     ZoneConfig     `yaml:"zone"`
	Linker   LinkerConfig   `yaml:"linker"`
	Query    QueryConfig    `yaml:"query"`
	Validate ValidateConfig `yaml:"validate"`
	Search   SearchConfig   `yaml:"search"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
	Workers  int            `yaml:"workers"`
}

// ZoneConfig tunes reference zone location.
type ZoneConfig struct {
	WindowFactor   int    `yaml:"window_factor"`
	ShortWindowMax int    `yaml:"short_window_max"`
	SanityRatio    int    `yaml:"sanity_ratio"`
	HeaderPattern  string `yaml:"header_pattern,omitempty"`
}

// LinkerConfig tunes line linking.
type LinkerConfig struct {
	MinScore        int      `yaml:"min_score"`
	DriftMultiplier float64  `yaml:"drift_multiplier"`
	TieRatio        float64  `yaml:"tie_ratio"`
	RepechageMin    int      `yaml:"repechage_min"`
	StopWords       []string `yaml:"stopwords"`
}

// QueryConfig tunes query rendering.
type QueryConfig struct {
	JournalWildcardMax int  `yaml:"journal_wildcard_max"`
	Grouped            bool `yaml:"grouped"`
}

// ValidateConfig tunes record and hit validation.
type ValidateConfig struct {
	MaxTitleLen int `yaml:"max_title_len"`
	// Journals maps extra journal abbreviations to ISSNs.
	Journals map[string]string `yaml:"journals,omitempty"`
}

// SearchConfig selects and configures the search backend.
type SearchConfig struct {
	Backend    string           `yaml:"backend"`
	BaseURL    string           `yaml:"base_url,omitempty"`
	Token      string           `yaml:"token,omitempty"`
	Rate       float64          `yaml:"rate"`
	Timeout    time.Duration    `yaml:"timeout"`
	Fields     []string         `yaml:"fields,omitempty"`
	OpenSearch OpenSearchConfig `yaml:"opensearch"`
}

// OpenSearchConfig configures the OpenSearch backend.
type OpenSearchConfig struct {
	Addresses []string `yaml:"addresses,omitempty"`
	Index     string   `yaml:"index,omitempty"`
	Username  string   `yaml:"username,omitempty"`
	Password  string   `yaml:"password,omitempty"`
	URIPrefix string   `yaml:"uri_prefix,omitempty"`
}

// OutputConfig names the files written by a run.
type OutputConfig struct {
	Results  string `yaml:"results,omitempty"`
	XLSX     string `yaml:"xlsx,omitempty"`
	CacheDB  string `yaml:"cache_db,omitempty"`
	Metrics  string `yaml:"metrics,omitempty"`
	Enriched string `yaml:"enriched_dir,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	zp := zone.DefaultParams()
	lp := linker.DefaultParams()
	return &Config{
		Zone: ZoneConfig{
			WindowFactor:   zp.WindowFactor,
			ShortWindowMax: zp.ShortWindowMax,
			SanityRatio:    zp.SanityRatio,
		},
		Linker: LinkerConfig{
			MinScore:        lp.MinScore,
			DriftMultiplier: lp.DriftMultiplier,
			TieRatio:        lp.TieRatio,
			RepechageMin:    lp.RepechageMin,
			StopWords:       lp.StopWords,
		},
		Query:    QueryConfig{JournalWildcardMax: query.DefaultParams().JournalWildcardMax},
		Validate: ValidateConfig{MaxTitleLen: record.DefaultMaxTitleLen},
		Search: SearchConfig{
			Backend: BackendISTEX,
			Rate:    5,
			Timeout: 30 * time.Second,
		},
		Log:     LogConfig{Level: "info", Format: "json"},
		Workers: 4,
	}
}

// DefaultPath returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/refzone/config.yml.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the configuration at path, or DefaultPath when path is empty,
// over the defaults. A missing file is not an error. Environment variables
// override the file for secrets.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.expandPaths()
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ISTEX_TOKEN"); v != "" {
		c.Search.Token = v
	}
	if v := os.Getenv("OPENSEARCH_PASSWORD"); v != "" {
		c.Search.OpenSearch.Password = v
	}
	if v := os.Getenv("OPENSEARCH_URL"); v != "" {
		c.Search.OpenSearch.Addresses = strings.Split(v, ",")
	}
}

func (c *Config) expandPaths() {
	c.Output.Results = ExpandTilde(c.Output.Results)
	c.Output.XLSX = ExpandTilde(c.Output.XLSX)
	c.Output.CacheDB = ExpandTilde(c.Output.CacheDB)
	c.Output.Metrics = ExpandTilde(c.Output.Metrics)
	c.Output.Enriched = ExpandTilde(c.Output.Enriched)
}

// check reports whether the configuration is usable.
func (c *Config) check() error {
	switch c.Search.Backend {
	case BackendISTEX:
	case BackendOpenSearch:
		if len(c.Search.OpenSearch.Addresses) == 0 || c.Search.OpenSearch.Index == "" {
			return fmt.Errorf("%w: opensearch backend needs addresses and index", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown search backend %q", ErrInvalid, c.Search.Backend)
	}
	if c.Zone.WindowFactor < 1 || c.Zone.SanityRatio < 0 {
		return fmt.Errorf("%w: zone window_factor must be >= 1 and sanity_ratio >= 0", ErrInvalid)
	}
	if c.Zone.HeaderPattern != "" {
		if _, err := regexp.Compile(c.Zone.HeaderPattern); err != nil {
			return fmt.Errorf("%w: zone header_pattern: %v", ErrInvalid, err)
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1", ErrInvalid)
	}
	return nil
}

// ZoneParams converts the zone section.
func (c *Config) ZoneParams() zone.Params {
	p := zone.Params{
		WindowFactor:   c.Zone.WindowFactor,
		ShortWindowMax: c.Zone.ShortWindowMax,
		SanityRatio:    c.Zone.SanityRatio,
		Header:         zone.DefaultHeader,
	}
	if c.Zone.HeaderPattern != "" {
		p.Header = regexp.MustCompile(c.Zone.HeaderPattern)
	}
	return p
}

// LinkerParams converts the linker section.
func (c *Config) LinkerParams() linker.Params {
	return linker.Params{
		MinScore:        c.Linker.MinScore,
		DriftMultiplier: c.Linker.DriftMultiplier,
		TieRatio:        c.Linker.TieRatio,
		RepechageMin:    c.Linker.RepechageMin,
		StopWords:       c.Linker.StopWords,
	}
}

// QueryParams converts the query section.
func (c *Config) QueryParams() query.Params {
	return query.Params{
		JournalWildcardMax: c.Query.JournalWildcardMax,
		Grouped:            c.Query.Grouped,
	}
}

// ExpandTilde replaces a leading ~ with the user's home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
