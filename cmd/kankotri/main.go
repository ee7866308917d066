// Command kankotri sends each guest their personalized invitation through the
// WhatsApp web client, one recipient at a time.
package main

import (
	"context"
	"fmt"
	"os"

	"kankotri/internal/config"
	"kankotri/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Resolved by PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "kankotri",
	Short: "Dispatch personalized invitations over WhatsApp Web",
	Long: `kankotri drives a logged-in WhatsApp Web session to send every guest in a
CSV roster the PDF invitation generated for them.

Each recipient is handled in order: the number is normalized, the PDF is
located in the client folder, the chat is opened, and the document is
attached and sent. Every attempt is printed and, when configured, posted to a
status endpoint.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		logger, err = logging.New(logging.Config{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			File:    cfg.Logging.File,
			Verbose: verbose,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.For(logger, logging.CategoryBoot).Debug("Configuration loaded", zap.String("path", configPath))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the configuration file")

	sendCmd.Flags().StringVar(&sendClient, "client", "", "Client folder under paths.output_base (prompts when empty)")
	sendCmd.Flags().StringVar(&sendRecipients, "recipients", "", "CSV roster with name and number columns (default: paths.recipients)")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "Check numbers and documents without opening the browser")

	logsServeCmd.Flags().StringVar(&logsAddr, "addr", defaultLedgerAddr, "Listen address for the status receiver")
	logsListCmd.Flags().IntVar(&logsLimit, "limit", 20, "Number of entries to show")
	logsCmd.AddCommand(logsServeCmd)
	logsCmd.AddCommand(logsListCmd)

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(checkCmd)
}

// commandContext returns the command's context, falling back to Background
// when the command is invoked directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
