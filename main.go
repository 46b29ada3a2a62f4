package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/airlift-dev/airlift/pkg/analysis"
	"github.com/airlift-dev/airlift/pkg/config"
	"github.com/airlift-dev/airlift/pkg/destination"
	"github.com/airlift-dev/airlift/pkg/logging"
	"github.com/airlift-dev/airlift/pkg/models"
	"github.com/airlift-dev/airlift/pkg/progress"
	"github.com/airlift-dev/airlift/pkg/source"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "airlift",
		Short:        "Migrate flexible base exports into PostgreSQL with relationship inference",
		Version:      Version,
		SilenceUsage: true,
	}
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newMigrateCmd())
	return root
}

func newAnalyzeCmd() *cobra.Command {
	var input, format, output string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Infer relationships from a base export and emit the analysis report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), input, format, output)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "path to base export JSON (required)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "report format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output path, - for stdout")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var input string
	var apply bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Transfer records into PostgreSQL and print or apply schema directives",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), input, apply)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "path to base export JSON (required)")
	cmd.Flags().BoolVar(&apply, "apply", false, "apply inferred foreign-key directives after loading data")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runAnalyze(ctx context.Context, input, format, output string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	report, _, err := analyze(ctx, cfg, logger, input)
	if err != nil {
		return err
	}
	return writeReport(report, format, output)
}

func runMigrate(ctx context.Context, input string, apply bool) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	report, tables, err := analyze(ctx, cfg, logger, input)
	if err != nil {
		return err
	}

	db, err := destination.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, t := range tables {
		ddl := destination.RenderCreateTable(cfg.Database.Schema, t)
		if err := db.Apply(ctx, []string{ddl}); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
		if _, err := db.CopyRecords(ctx, cfg.Database.Schema, t); err != nil {
			return err
		}
	}

	var statements []string
	rendered := make(map[*models.ForeignKeyPlacement]bool)
	for _, rec := range report.Relationships {
		if rec.Placement == nil || rec.Bucket != models.BucketAutoSuggest {
			continue
		}
		// Mirrored recommendations share one directive; render it once.
		if rendered[rec.Placement] {
			continue
		}
		rendered[rec.Placement] = true
		statements = append(statements, destination.RenderPlacement(cfg.Database.Schema, rec.Placement)...)
	}
	if !apply {
		for _, stmt := range statements {
			fmt.Println(stmt + ";")
		}
		logger.Info("directives printed, not applied; re-run with --apply",
			zap.Int("statements", len(statements)))
		return nil
	}
	if err := db.Apply(ctx, statements); err != nil {
		return err
	}
	logger.Info("migration complete",
		zap.Int("tables", len(tables)),
		zap.Int("directives", len(statements)))
	return nil
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(Version)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, logger, nil
}

// analyze loads the base export and runs the inference engine over it,
// draining progress events into the log.
func analyze(ctx context.Context, cfg *config.Config, logger *zap.Logger, input string) (*models.AnalysisReport, []*models.Table, error) {
	tables, err := source.LoadBaseExport(input)
	if err != nil {
		return nil, nil, err
	}
	store := source.NewMemoryStore(tables)

	reporter := progress.NewChannelReporter(64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range reporter.Events() {
			logger.Info("progress",
				zap.String("status", string(ev.Status)),
				zap.String("message", ev.Message))
		}
	}()

	engine := analysis.NewEngine(store, cfg.Analysis, reporter, logger)
	report, err := engine.Analyze(ctx)
	reporter.Close()
	<-done
	if err != nil {
		return nil, nil, err
	}
	return report, tables, nil
}

func writeReport(report *models.AnalysisReport, format, output string) error {
	var data []byte
	var err error
	switch format {
	case "json":
		data, err = json.MarshalIndent(report, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case "yaml":
		data, err = yaml.Marshal(report)
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if output == "-" || output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(output, data, 0o644)
}
