package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/AlfredBerg/rod-profile-scraper/internal/browser"
	"github.com/AlfredBerg/rod-profile-scraper/internal/fetch"
	"github.com/AlfredBerg/rod-profile-scraper/internal/logger"
	"github.com/AlfredBerg/rod-profile-scraper/internal/profile"
)

const (
	SinkCSV    = "csv"
	SinkSQLite = "sqlite"

	DefaultCSVOutput    = "twitter_profiles.csv"
	DefaultSQLiteOutput = "profiles.db"
)

type Config struct {
	Environment string `mapstructure:"environment"`
	// Input is a single column csv file of profile urls. Empty means
	// positional arguments or stdin.
	Input string `mapstructure:"input"`
	Sink  string `mapstructure:"sink"`
	// Output is the csv file or sqlite database. Empty picks a default per sink.
	Output string `mapstructure:"output"`
	// Fields to read from each profile. Empty picks a default per sink.
	Fields []string `mapstructure:"fields"`

	Fetch struct {
		Attempts    int           `mapstructure:"attempts"`
		WaitTimeout time.Duration `mapstructure:"wait_timeout"`
		Backoff     time.Duration `mapstructure:"backoff"`
	} `mapstructure:"fetch"`

	Browser struct {
		Driver          string        `mapstructure:"driver"`
		Headless        bool          `mapstructure:"headless"`
		Bin             string        `mapstructure:"bin"`
		NavigateTimeout time.Duration `mapstructure:"navigate_timeout"`
	} `mapstructure:"browser"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("environment", logger.DevelopmentEnvironment)
	v.SetDefault("sink", SinkCSV)
	v.SetDefault("fetch.attempts", fetch.DefaultMaxAttempts)
	v.SetDefault("fetch.wait_timeout", fetch.DefaultWaitTimeout)
	v.SetDefault("fetch.backoff", fetch.DefaultBackoff)
	v.SetDefault("browser.driver", browser.DriverRod)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.navigate_timeout", browser.DefaultNavigateTimeout)
}

// Load reads the configuration out of v and checks it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	switch cfg.Sink {
	case SinkCSV:
		if cfg.Output == "" {
			cfg.Output = DefaultCSVOutput
		}
	case SinkSQLite:
		if cfg.Output == "" {
			cfg.Output = DefaultSQLiteOutput
		}
	default:
		return nil, fmt.Errorf("unknown sink %q, expected %s or %s", cfg.Sink, SinkCSV, SinkSQLite)
	}
	if cfg.Fetch.Attempts < 1 {
		return nil, fmt.Errorf("fetch.attempts must be at least 1, got %d", cfg.Fetch.Attempts)
	}
	fields, err := cfg.FieldSet()
	if err != nil {
		return nil, err
	}
	writable := sinkFields(cfg.Sink)
	for _, f := range fields {
		if !writable.Has(f) {
			return nil, fmt.Errorf("the %s sink cannot store field %q, it writes %v", cfg.Sink, f, writable)
		}
	}
	return &cfg, nil
}

// sinkFields is every field the sink has a column for.
func sinkFields(sink string) profile.FieldSet {
	if sink == SinkSQLite {
		return profile.SummaryFields
	}
	return profile.ProfileFields
}

// FieldSet returns the configured fields, or the ones the sink writes.
func (c *Config) FieldSet() (profile.FieldSet, error) {
	if len(c.Fields) > 0 {
		return profile.ParseFieldSet(c.Fields)
	}
	return sinkFields(c.Sink), nil
}

func (c *Config) FetchOptions() (fetch.Options, error) {
	fields, err := c.FieldSet()
	if err != nil {
		return fetch.Options{}, err
	}
	return fetch.Options{
		MaxAttempts: c.Fetch.Attempts,
		WaitTimeout: c.Fetch.WaitTimeout,
		Backoff:     c.Fetch.Backoff,
		Fields:      fields,
	}, nil
}

func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		Driver:          c.Browser.Driver,
		Headless:        c.Browser.Headless,
		Bin:             c.Browser.Bin,
		NavigateTimeout: c.Browser.NavigateTimeout,
	}
}
