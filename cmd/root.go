package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/AlfredBerg/rod-profile-scraper/internal/browser"
	"github.com/AlfredBerg/rod-profile-scraper/internal/config"
	"github.com/AlfredBerg/rod-profile-scraper/internal/crawl"
	"github.com/AlfredBerg/rod-profile-scraper/internal/fetch"
	"github.com/AlfredBerg/rod-profile-scraper/internal/input"
	"github.com/AlfredBerg/rod-profile-scraper/internal/logger"
	"github.com/AlfredBerg/rod-profile-scraper/internal/outputHandlers/csv"
	"github.com/AlfredBerg/rod-profile-scraper/internal/outputHandlers/sqlite"
)

var cfgFile string

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rod-profile-scraper.yaml)")

	f := rootCmd.Flags()
	f.StringP("input", "i", "", "A single column csv file containing the profile urls. If empty the arguments, or else stdin, are used.")
	f.StringP("sink", "s", config.SinkCSV, "Where results go: csv (written once at the end) or sqlite (one row per url, existing urls skipped).")
	f.StringP("output", "o", "", "The csv file or sqlite database to write. Defaults to "+config.DefaultCSVOutput+" or "+config.DefaultSQLiteOutput+".")
	f.StringSlice("fields", nil, "Fields to read, limited to what the sink stores. csv: bio, following_count, followers_count, location, website. sqlite: title, followers_count. Defaults to all of them.")
	f.Int("attempts", fetch.DefaultMaxAttempts, "The number of times a profile page is tried before it is stored as N/A.")
	f.Duration("wait-timeout", fetch.DefaultWaitTimeout, "The maximum time to wait for the profile page to render.")
	f.Duration("backoff", fetch.DefaultBackoff, "The pause between two attempts on the same profile.")
	f.String("driver", browser.DriverRod, "The browser automation driver: rod or chromedp.")
	f.Bool("headless", true, "Run the browser without a window.")
	f.String("browser-bin", "", "The browser executable. If empty one is looked up or downloaded.")
	f.String("environment", "development", "development gives human readable logs, production gives json.")

	for key, flag := range map[string]string{
		"input":              "input",
		"sink":               "sink",
		"output":             "output",
		"fields":             "fields",
		"fetch.attempts":     "attempts",
		"fetch.wait_timeout": "wait-timeout",
		"fetch.backoff":      "backoff",
		"browser.driver":     "driver",
		"browser.headless":   "headless",
		"browser.bin":        "browser-bin",
		"environment":        "environment",
	} {
		cobra.CheckErr(viper.BindPFlag(key, f.Lookup(flag)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".rod-profile-scraper" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rod-profile-scraper")
	}

	// PROFILES_FETCH_ATTEMPTS sets fetch.attempts
	viper.SetEnvPrefix("profiles")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

var rootCmd = &cobra.Command{
	Use:   "rod-profile-scraper [profile url...]",
	Short: "Visits twitter profiles in a headless browser and saves bio, counts, location and website",

	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		if err := logger.Setup(cfg.Environment); err != nil {
			return fmt.Errorf("could not set up logging: %w", err)
		}
		ctx := cmd.Context()
		defer logger.Sync(ctx)

		targets, err := loadTargets(afero.NewOsFs(), cfg.Input, args, cmd.InOrStdin())
		if err != nil {
			logger.Error(ctx, "could not load profile urls", zap.Error(err))
			return err
		}
		logger.Info(ctx, "profile urls loaded", zap.Int("count", len(targets)))

		return crawler(ctx, cfg, targets)
	},
}

// loadTargets prefers the input file, then the arguments, then stdin.
func loadTargets(fs afero.Fs, path string, args []string, stdin io.Reader) ([]string, error) {
	if path != "" {
		return input.LoadCSV(fs, path)
	}
	if len(args) > 0 {
		return args, nil
	}
	return input.LoadLines(stdin)
}

func newOutputHandler(cfg *config.Config) crawl.OutputHandler {
	if cfg.Sink == config.SinkSQLite {
		return &sqlite.SqliteOutput{Database: cfg.Output}
	}
	return &csv.CsvOutput{Path: cfg.Output, Fs: afero.NewOsFs()}
}

func crawler(ctx context.Context, cfg *config.Config, targets []string) error {
	fetchOptions, err := cfg.FetchOptions()
	if err != nil {
		return err
	}
	browserOptions := cfg.BrowserOptions()

	j := crawl.Job{
		Targets: targets,
		NewSession: func(ctx context.Context) (crawl.Session, error) {
			return browser.Launch(ctx, browserOptions)
		},
		Fetcher:       fetch.New(fetchOptions),
		OutputHandler: newOutputHandler(cfg),
	}

	sum, err := j.Run(ctx)
	if err != nil {
		logger.Error(ctx, "crawl failed", zap.Error(err))
		return err
	}
	fmt.Fprintf(os.Stderr, "Collected %d entries: %d stored, %d skipped, %d failed, %d invalid urls ignored\n",
		sum.Attempted, sum.Stored, sum.Skipped, sum.Failed, sum.Rejected)
	return nil
}
