package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"resumax/internal/config"
	"resumax/internal/logger"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Shared state built in the persistent pre-run
	cfgManager *config.Manager
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "resumax",
	Short: "resumax - LaTeX resume section engine",
	Long: `resumax decomposes a LaTeX resume into reusable section blocks,
lets you pick which sections and bullet items to keep, and reassembles
a complete document from the surviving blocks.

The original document is parsed once; filtered output is pure
concatenation of the parsed blocks, so valid input stays valid.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfgManager, err = config.NewManager(configPath)
		if err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		if err := cfgManager.Load(); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logCfg := logger.DefaultConfig()
		logCfg.LogFilePath = cfgManager.GetConfig().LogFilePath
		logCfg.Level = logger.ParseLevel(cfgManager.GetConfig().LogLevel)
		if verbose {
			logCfg.Level = logger.LevelDebug
			logCfg.EnableConsole = true
		}
		if err := logger.Init(logCfg); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/resumax/resumax-config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to console")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(templatesCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
