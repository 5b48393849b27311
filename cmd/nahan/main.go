package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nahan-app/nahan/internal/config"
	"github.com/nahan-app/nahan/internal/logging"
)

var (
	configPath string
	verbose    bool
	debug      bool

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nahan",
	Short: "Nahan - hide authenticated messages in poems and pictures.",
	Long: `Nahan seals messages for a contact (or signs them for everyone) and hides
the result in ordinary looking text or images.

Usage:
  nahan <command> [flags]

Run 'nahan help <command>' for more details on a specific command.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(logging.Options{Verbose: verbose, Debug: debug})
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		logger.Debug("configuration loaded",
			slog.String("key_file", cfg.KeyFile),
			slog.String("language", cfg.Language),
			slog.Bool("lenient", cfg.Lenient),
			slog.Int("contacts", len(cfg.Contacts)))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/nahan/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	rootCmd.AddCommand(keygenCmd, idCmd)
	rootCmd.AddCommand(encryptCmd, decryptCmd, signCmd, verifyCmd)
	rootCmd.AddCommand(hideCmd, revealCmd, embedCmd, extractCmd, coverCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
