// Package cmd implements the CLI commands for storypdf using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/storypdf/core/config"
	"github.com/gaurav-prasanna/storypdf/core/logging"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storypdf",
	Short: "storypdf: download a multi-chapter story as a single PDF",
	Long: `storypdf fetches a story's frontpage and every chapter from the story site
and assembles them into one PDF with a linked table of contents.

Usage:
  storypdf fetch [story-id|story-url] [flags]
  storypdf serve`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		log, err = logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		cmd.SetContext(log.WithContext(cmd.Context()))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
