// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/config"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/dlogger"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/storage"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/storage/localfs"
)

var params struct {
	path       string
	logLevel   string
	configPath string
}

var rootCmd = &cobra.Command{
	Use:   "deeplogctl",
	Short: "Inspect and drive a dataset transaction log",
	Long: `deeplogctl operates directly on a dataset's transaction log on local
disk: creating it, opening it, folding a branch down to a checkpoint,
and printing the state a snapshot sees.

This is not a replacement for the library — it exercises the same
pkg/deeplog entry points a service would call.
`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	rootCmd.PersistentFlags().StringVar(&params.path, "path", ".", "path to the dataset root")
	rootCmd.PersistentFlags().StringVar(&params.logLevel, "log-level", dlogger.LogLevelInfo, "log level: debug, info, none")
	rootCmd.PersistentFlags().StringVar(&params.configPath, "config", "", "path to a YAML engine config file (see pkg/config)")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkpointCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// loadConfig returns the engine config for this invocation: pkg/config
// defaults, overridden by --config's YAML document if given, overridden
// in turn by the --log-level flag so it always wins over a stale config
// file.
func loadConfig() config.Options {
	cfg := config.Default()
	if params.configPath != "" {
		raw, err := os.ReadFile(params.configPath)
		if err != nil {
			fatal(fmt.Errorf("reading config %s: %w", params.configPath, err))
		}
		cfg, err = config.Unmarshal(raw)
		if err != nil {
			fatal(fmt.Errorf("parsing config %s: %w", params.configPath, err))
		}
	}
	if rootCmd.PersistentFlags().Changed("log-level") {
		cfg.LogLevel = params.logLevel
	}
	return cfg
}

func logOptions() []deeplog.Option {
	return []deeplog.Option{deeplog.WithConfig(loadConfig())}
}

func openStore() storage.Store {
	return localfs.New(afero.NewBasePathFs(afero.NewOsFs(), params.path))
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
