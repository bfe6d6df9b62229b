package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/AlfredBerg/rod-profile-scraper/internal/config"
	"github.com/AlfredBerg/rod-profile-scraper/internal/profile"
)

func newViper() *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(newViper())
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, config.SinkCSV, cfg.Sink)
	require.Equal(t, config.DefaultCSVOutput, cfg.Output)
	require.Equal(t, 3, cfg.Fetch.Attempts)
	require.Equal(t, 10*time.Second, cfg.Fetch.WaitTimeout)
	require.Equal(t, 2*time.Second, cfg.Fetch.Backoff)
	require.True(t, cfg.Browser.Headless)
	require.Equal(t, "rod", cfg.Browser.Driver)

	fields, err := cfg.FieldSet()
	require.NoError(t, err)
	require.Equal(t, profile.ProfileFields, fields)
}

func TestLoadYAML(t *testing.T) {
	v := newViper()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
sink: sqlite
fields: [followers_count, title]
fetch:
  attempts: 5
  wait_timeout: 3s
  backoff: 500ms
browser:
  driver: chromedp
  headless: false
`)))

	cfg, err := config.Load(v)
	require.NoError(t, err)
	require.Equal(t, config.DefaultSQLiteOutput, cfg.Output)
	require.Equal(t, "chromedp", cfg.BrowserOptions().Driver)
	require.False(t, cfg.BrowserOptions().Headless)

	opts, err := cfg.FetchOptions()
	require.NoError(t, err)
	require.Equal(t, 5, opts.MaxAttempts)
	require.Equal(t, 3*time.Second, opts.WaitTimeout)
	require.Equal(t, 500*time.Millisecond, opts.Backoff)
	require.Equal(t, profile.FieldSet{profile.FollowersCount, profile.Title}, opts.Fields)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for key, value := range map[string]any{
		"sink":           "parquet",
		"fetch.attempts": 0,
		"fields":         []string{"avatar"},
	} {
		v := newViper()
		v.Set(key, value)
		_, err := config.Load(v)
		require.Error(t, err, key)
	}
}

func TestLoadRejectsFieldsTheSinkCannotWrite(t *testing.T) {
	cases := []struct {
		sink   string
		fields []string
		ok     bool
	}{
		{config.SinkCSV, []string{"title"}, false},
		{config.SinkCSV, []string{"bio", "website"}, true},
		{config.SinkSQLite, []string{"location"}, false},
		{config.SinkSQLite, []string{"title"}, true},
	}

	for _, tc := range cases {
		v := newViper()
		v.Set("sink", tc.sink)
		v.Set("fields", tc.fields)
		_, err := config.Load(v)
		if tc.ok {
			require.NoError(t, err, "%s %v", tc.sink, tc.fields)
		} else {
			require.Error(t, err, "%s %v", tc.sink, tc.fields)
		}
	}
}
