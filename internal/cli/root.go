package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = &Config{}
	defaults, defaultsErr := DefaultConfig()
	if defaultsErr == nil {
		cfg = defaults
	}

	rootCmd := &cobra.Command{
		Use:   "gccache",
		Short: "CLI tool for the gccache daemon",
		Long: `gccache is a CLI tool for the gccache daemon's JSON API.

It manages cached player profiles, their scores and achievements, the
registered catalog, and the remote service session.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if defaultsErr != nil {
				return defaultsErr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.Timeout)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Daemon URL (env: GCCACHE_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: GCCACHE_OUTPUT)")
	rootCmd.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Request timeout (env: GCCACHE_CLIENT_TIMEOUT)")

	// Add subcommands
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newAchievementCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// output returns a formatter writing to the command's stdout
func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
