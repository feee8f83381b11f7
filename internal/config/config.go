// Package config loads chatmetrics settings from environment variables
// (CHATMETRICS_ prefix) and an optional YAML config file. File values
// fill in whatever the environment left unset.
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	// SelfNames stand in for the literal author "you" in exports; the
	// first entry is substituted.
	SelfNames []string

	// ExcludedAuthors are dropped from the parsed collection entirely
	// (group-title pseudo-authors, automated assistants).
	ExcludedAuthors []string

	// Report shapes the activity category report only; the underlying
	// stats are untouched.
	Report ReportConfig

	Scoring ScoringConfig

	Store StoreConfig
}

type ReportConfig struct {
	ExcludeAuthors []string
	RenameAuthors  map[string]string
}

type ScoringConfig struct {
	MinPoints float64
	MaxPoints float64
}

type StoreConfig struct {
	SQLitePath string
}

const (
	defaultSQLitePath = "chatmetrics.db"
	defaultMinPoints  = 0.5
	defaultMaxPoints  = 10.0
)

// Load reads the environment.
func Load() Config {
	cfg := Config{}

	cfg.SelfNames = splitList(os.Getenv("CHATMETRICS_SELF_NAMES"))
	cfg.ExcludedAuthors = splitList(os.Getenv("CHATMETRICS_EXCLUDE_AUTHORS"))
	cfg.Report.ExcludeAuthors = splitList(os.Getenv("CHATMETRICS_REPORT_EXCLUDE"))

	cfg.Scoring.MinPoints = readFloat("CHATMETRICS_MIN_POINTS", defaultMinPoints)
	cfg.Scoring.MaxPoints = readFloat("CHATMETRICS_MAX_POINTS", defaultMaxPoints)

	cfg.Store.SQLitePath = strings.TrimSpace(os.Getenv("CHATMETRICS_SQLITE_PATH"))
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = defaultSQLitePath
	}

	return cfg
}

// MergeFile overlays values from a YAML config file onto cfg. Only keys
// the environment left at their defaults are taken from the file.
func (c *Config) MergeFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrap(err, "read config file")
	}

	if len(c.SelfNames) == 0 {
		c.SelfNames = v.GetStringSlice("self_names")
	}
	if len(c.ExcludedAuthors) == 0 {
		c.ExcludedAuthors = v.GetStringSlice("exclude_authors")
	}
	if len(c.Report.ExcludeAuthors) == 0 {
		c.Report.ExcludeAuthors = v.GetStringSlice("report.exclude_authors")
	}
	if len(c.Report.RenameAuthors) == 0 && v.IsSet("report.rename_authors") {
		c.Report.RenameAuthors = v.GetStringMapString("report.rename_authors")
	}
	if v.IsSet("scoring.min_points") && c.Scoring.MinPoints == defaultMinPoints {
		c.Scoring.MinPoints = v.GetFloat64("scoring.min_points")
	}
	if v.IsSet("scoring.max_points") && c.Scoring.MaxPoints == defaultMaxPoints {
		c.Scoring.MaxPoints = v.GetFloat64("scoring.max_points")
	}
	if v.IsSet("store.sqlite_path") && c.Store.SQLitePath == defaultSQLitePath {
		c.Store.SQLitePath = v.GetString("store.sqlite_path")
	}

	return nil
}

func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func readFloat(name string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return f
}

// Summary shapes the effective config for startup logging.
type Summary struct {
	SelfNames       int     `json:"self_names"`
	ExcludedAuthors int     `json:"excluded_authors"`
	ReportExcluded  int     `json:"report_excluded"`
	ReportRenamed   int     `json:"report_renamed"`
	MinPoints       float64 `json:"min_points"`
	MaxPoints       float64 `json:"max_points"`
	SQLitePath      string  `json:"sqlite_path"`
}

func (c Config) Summary() Summary {
	return Summary{
		SelfNames:       len(c.SelfNames),
		ExcludedAuthors: len(c.ExcludedAuthors),
		ReportExcluded:  len(c.Report.ExcludeAuthors),
		ReportRenamed:   len(c.Report.RenameAuthors),
		MinPoints:       c.Scoring.MinPoints,
		MaxPoints:       c.Scoring.MaxPoints,
		SQLitePath:      c.Store.SQLitePath,
	}
}

func (c Config) SummaryJSON() []byte {
	summary := struct {
		Config Summary `json:"config_summary"`
	}{Config: c.Summary()}
	data, _ := json.Marshal(summary)
	return data
}
