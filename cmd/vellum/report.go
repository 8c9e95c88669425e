package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vellum-ml/vellum/internal/export/draft"
	"github.com/vellum-ml/vellum/internal/structlog"
)

var reportCmd = &cobra.Command{
	Use:   "report <artifact>",
	Short: "Render the failure report stored in a trace artifact",
	Long: "Reads a trace_<id>.msgpack artifact written during a draft export " +
		"run, classifies the captured events and prints the failure report.",
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().Bool("no-color", false, "disable ANSI colors in the report")
}

func runReport(cmd *cobra.Command, args []string) error {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true
	}

	logger := zap.NewNop()
	if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
	}

	art, err := structlog.ReadArtifact(args[0])
	if err != nil {
		return fmt.Errorf("reading artifact: %w", err)
	}
	logger.Debug("artifact loaded",
		zap.String("id", art.ID),
		zap.Int("events", len(art.Events)),
		zap.Int("files", len(art.Files)))

	// Offline classification has no refined shape spec, so recorded
	// guard_added events carry no constraint violations here.
	records, _, err := draft.Classify(art.Events, art.Files, draft.ClassifyConfig{})
	if err != nil {
		return fmt.Errorf("classifying events: %w", err)
	}

	report := draft.NewReport(records, art.Files)
	fmt.Fprintln(cmd.OutOrStdout(), report.String())
	return nil
}
