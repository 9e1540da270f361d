package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/de-tools/timesheet-atlas/pkg/export"
	"github.com/de-tools/timesheet-atlas/pkg/models/domain"
	"github.com/de-tools/timesheet-atlas/pkg/services/config"
	"github.com/de-tools/timesheet-atlas/pkg/services/ingest"
	"github.com/de-tools/timesheet-atlas/pkg/services/reconcile"
	"github.com/de-tools/timesheet-atlas/pkg/services/report"
	"github.com/de-tools/timesheet-atlas/pkg/services/summary"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type generateCmd struct {
	inputPath       string
	client          string
	employee        string
	from            string
	to              string
	summarize       bool
	credentialsPath string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "timesheet",
		Short: "Timesheet report tool",
	}
	rootCmd.AddCommand(newGenerateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	gc := &generateCmd{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Reconcile exported records over a date range and render the report",
		RunE:  gc.run,
	}

	cmd.Flags().StringVar(&gc.inputPath, "input", "", "Path to the exported records file (JSON)")
	cmd.Flags().StringVar(&gc.client, "client", "", "Client name for the report header")
	cmd.Flags().StringVar(&gc.employee, "employee", "", "Employee name for the report header")
	cmd.Flags().StringVar(&gc.from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&gc.to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&gc.summarize, "summarize", false, "Generate the executive summary")
	cmd.Flags().StringVar(&gc.credentialsPath, "credentials", "", "Path to the credentials profile file")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (gc *generateCmd) run(cmd *cobra.Command, _ []string) error {
	start, err := time.Parse(dateLayout, gc.from)
	if err != nil {
		return fmt.Errorf("invalid --from date %q: expected format YYYY-MM-DD", gc.from)
	}
	end, err := time.Parse(dateLayout, gc.to)
	if err != nil {
		return fmt.Errorf("invalid --to date %q: expected format YYYY-MM-DD", gc.to)
	}
	if start.After(end) {
		return fmt.Errorf("--from must not be after --to")
	}

	records, err := gc.loadRecords()
	if err != nil {
		return err
	}

	result := reconcile.Reconcile(records, gc.client, gc.employee, start, end)

	if gc.summarize {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		ctx, cancel := context.WithTimeout(logger.WithContext(context.Background()), 60*time.Second)
		defer cancel()

		generator := summary.NewGenerator(summary.NewClient(""))
		generated := generator.Generate(ctx, reconcile.SummaryInput(result.Entries), gc.resolveAPIKey())
		result = report.SetExecutiveSummary(result, generated.Text)
	}

	return export.NewTextReporter(os.Stdout).Handle(&result)
}

func (gc *generateCmd) loadRecords() ([]domain.SourceRecord, error) {
	if gc.inputPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(gc.inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return ingest.Parse(data)
}

func (gc *generateCmd) resolveAPIKey() string {
	cfg := &config.Config{CredentialsFile: gc.credentialsPath}
	return cfg.ResolveAPIKey("")
}
