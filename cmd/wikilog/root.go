package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vaibhaw-/wikilog/internal/wikilog/classify"
	"github.com/vaibhaw-/wikilog/internal/wikilog/config"
	"github.com/vaibhaw-/wikilog/internal/wikilog/logger"
)

var (
	cfgFile  string
	logLevel string
	Version  = "v0.1"
	build    = "dev"
	rootCmd  = &cobra.Command{
		Use:   "wikilog",
		Short: "wikilog - Confluence access-log decoder and classifier",
		Long:  "wikilog: decode Confluence access logs, classify each request into user actions, then filter, load or generate them.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				viper.SetConfigFile(cfgFile)
			} else {
				viper.SetConfigFile("config.yaml")
			}
			readErr := viper.ReadInConfig()
			if err := config.Load(viper.GetViper()); err != nil {
				return err
			}

			cfg := config.Get()
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if err := logger.InitLogger(logger.LogConfig{
				Level:       cfg.Logging.Level,
				Development: cfg.Logging.Development,
			}); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			if readErr != nil {
				logger.L().Warnw("could not read config, using defaults and flags", "err", readErr.Error())
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides logging.level)")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(taxonomyCmd)
	rootCmd.AddCommand(versionCmd)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// loadClassifier builds the classifier for a taxonomy extension file. An
// empty path yields the built-in tables only.
func loadClassifier(path string) (*classify.Classifier, error) {
	if path == "" {
		return classify.NewClassifier(nil), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open taxonomy file: %w", err)
	}
	defer f.Close()

	tax, err := config.ValidateTaxonomy(f)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	logger.L().Debugw("loaded taxonomy extension", "path", path, "entries", tax.Len())
	return classify.NewClassifier(tax), nil
}

// openInput returns stdin for an empty path.
func openInput(path string) (*os.File, error) {
	if path == "" || path == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

// createOutput returns stdout for an empty path.
func createOutput(path string) (*os.File, error) {
	if path == "" || path == "-" {
		return os.Stdout, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

func closeFile(f *os.File) {
	if f != os.Stdin && f != os.Stdout {
		f.Close()
	}
}
