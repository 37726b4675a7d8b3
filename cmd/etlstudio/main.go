package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jask/etlstudio/internal/api"
	"github.com/jask/etlstudio/internal/config"
	"github.com/jask/etlstudio/internal/database"
	"github.com/jask/etlstudio/internal/database/repository"
	"github.com/jask/etlstudio/internal/fixtures"
	"github.com/jask/etlstudio/internal/intake"
	"github.com/jask/etlstudio/internal/logging"
	"github.com/jask/etlstudio/internal/pipeline"
	"github.com/jask/etlstudio/internal/sampledata"
	"github.com/jask/etlstudio/internal/service"
	"github.com/jask/etlstudio/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatalf("etlstudio: %v", err)
	}
}

// env is everything a subcommand needs after config, logging and the database are up.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	db      *sql.DB
	schema  *repository.SchemaRepo
	closers []io.Closer
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	e := &env{cfg: cfg}

	for _, dir := range []string{filepath.Dir(cfg.Database.Path), cfg.Data.Dir, filepath.Dir(cfg.Log.Path)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	logFile, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	e.closers = append(e.closers, logFile)
	e.logger = logging.NewLogger(cfg.Log.Level, logFile)

	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		e.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}
	e.closers = append(e.closers, db)
	e.db = db

	if err := database.SeedDefaults(ctx, db); err != nil {
		e.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	e.schema = repository.NewSchemaRepo(db)
	e.logger.Info("startup", "db", cfg.Database.Path, "ingest_order", cfg.Ingest.Order)
	return e, nil
}

func (e *env) runner(obs pipeline.Observer) *pipeline.Runner {
	return pipeline.NewRunner(pipeline.DefaultSteps(), pipeline.Options{
		Delay:    e.cfg.Pipeline.StepDelay,
		Metrics:  pipeline.NewFakeMetrics(e.cfg.Pipeline.Seed),
		Logger:   e.logger,
		Observer: obs,
	})
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "etlstudio",
		Short:         "Terminal front end for a data engineering challenge",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
	root.AddCommand(
		&cobra.Command{Use: "tui", Short: "Open the interactive interface", Args: cobra.NoArgs, RunE: runTUI},
		&cobra.Command{Use: "pipeline", Short: "Run the simulated pipeline and print each step", Args: cobra.NoArgs, RunE: runPipeline},
		&cobra.Command{Use: "ingest FILE...", Short: "Ingest files, directories or globs and print their issues", Args: cobra.MinimumNArgs(1), RunE: runIngest},
		&cobra.Command{Use: "schema", Short: "Print tables, columns and foreign keys", Args: cobra.NoArgs, RunE: runSchema},
		&cobra.Command{Use: "reset", Short: "Wipe the database and reseed sample rows", Args: cobra.NoArgs, RunE: runReset},
		newSamplesCmd(),
		newServeCmd(),
	)
	return root
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	dash, err := fixtures.LoadDashboard()
	if err != nil {
		return err
	}
	overview, err := fixtures.LoadOverview()
	if err != nil {
		return err
	}

	app := tui.New(ctx, tui.Deps{
		Config:    e.cfg,
		Logger:    e.logger,
		Runner:    e.runner(nil),
		Store:     intake.NewStore(),
		Loader:    intake.NewLoader(e.logger),
		Schema:    e.schema,
		Export:    &service.ExportService{Schema: e.schema, Dir: e.cfg.ExportDir(), Logger: e.logger},
		Analysis:  &service.AnalysisService{},
		Dashboard: dash,
		Overview:  overview,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	var r *pipeline.Runner
	r = e.runner(func(ev pipeline.Event) {
		step := r.Snapshot().Steps[ev.Index]
		line := fmt.Sprintf("[%3.0f%%] %-20s %s", ev.Progress, step.Name, ev.To)
		if ev.To == pipeline.StatusCompleted && step.Duration != nil {
			line += fmt.Sprintf("  %dms  %s records  %d issues fixed",
				step.Duration.Milliseconds(), humanize.Comma(int64(*step.RecordsProcessed)), *step.IssuesFound)
		}
		fmt.Fprintln(out, line)
	})
	if err := r.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Pipeline completed successfully")
	return nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	var patterns []string
	for _, a := range args {
		patterns = append(patterns, intake.ParseSelection(a)...)
	}
	paths, err := intake.Expand(patterns)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .json or .csv files matched")
	}

	out := cmd.OutOrStdout()
	store := intake.NewStore()
	results := intake.NewLoader(e.logger).LoadAll(ctx, paths)
	for _, n := range store.Accept(results...) {
		fmt.Fprintln(out, n.Text)
	}
	for _, f := range store.List() {
		fmt.Fprintf(out, "\n%s (%s, %s)\n", f.Name, f.MIMEType, humanize.Bytes(uint64(f.Size)))
		if f.Kind == intake.KindCSV {
			fmt.Fprintf(out, "  rows: %s\n", humanize.Comma(int64(f.Rows)))
		}
		for _, issue := range f.Issues {
			fmt.Fprintf(out, "  - %s\n", issue)
		}
	}
	if store.Len() < len(results) {
		return fmt.Errorf("%d of %d files failed", len(results)-store.Len(), len(results))
	}
	return nil
}

func runSchema(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	tables, err := e.schema.Tables(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, t := range tables {
		fmt.Fprintf(out, "%s (%s records)\n", t.Name, humanize.Comma(int64(t.Records)))
		for _, c := range t.Columns {
			var notes []string
			if c.PrimaryKey {
				notes = append(notes, "PK")
			}
			if !c.Nullable {
				notes = append(notes, "NOT NULL")
			}
			if c.ForeignKey != "" {
				notes = append(notes, "→ "+c.ForeignKey)
			}
			fmt.Fprintf(out, "  %-16s %-8s %s\n", c.Name, c.Type, strings.Join(notes, " "))
		}
	}
	return nil
}

func runReset(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	m := &service.MaintenanceService{DB: e.db, Logger: e.logger}
	if err := m.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "database reset to sample data")
	return nil
}

func newSamplesCmd() *cobra.Command {
	var opts sampledata.Options
	cmd := &cobra.Command{
		Use:   "samples DIR",
		Short: "Write messy sample datasets to try the ingestion view with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := sampledata.Write(args[0], opts)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Customers, "customers", 25, "customer records to write")
	cmd.Flags().IntVar(&opts.Orders, "orders", 60, "order rows to write")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 = clock)")
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schema, sample rows, dashboard and pipeline as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.Close()
			if addr == "" {
				addr = e.cfg.Server.Addr
			}
			dash, err := fixtures.LoadDashboard()
			if err != nil {
				return err
			}

			srv := api.NewServer(api.ServerConfig{
				Addr:           addr,
				AllowedOrigins: e.cfg.Server.AllowedOrigins,
				Schema:         e.schema,
				Export:         &service.ExportService{Schema: e.schema, Dir: e.cfg.ExportDir(), Logger: e.logger},
				Runner:         e.runner(nil),
				Dashboard:      dash,
				Logger:         e.logger,
				RunContext:     ctx,
			})
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()
			fmt.Fprintf(cmd.OutOrStdout(), "listening on http://%s\n", srv.Addr())

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	return cmd
}
