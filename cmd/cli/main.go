package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"simlab/adapters/api"
	"simlab/adapters/distributions"
	"simlab/adapters/export"
	"simlab/adapters/postgres"
	"simlab/adapters/rng"
	"simlab/app"
	"simlab/domain/simulation"
	"simlab/internal"
	"simlab/internal/config"
	"simlab/ports"
)

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "simlab",
		Short: "Monte Carlo harness for evaluating statistical inference procedures",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var store bool
	var printJSON bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full experiment grid and export the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			result, err := executeRun(cmd.Context(), cfg, store)
			if err != nil {
				return err
			}
			if printJSON {
				return json.NewEncoder(os.Stdout).Encode(result)
			}
			fmt.Printf("run %s complete: %d coverage, %d testing, %d remediation records\n",
				result.Manifest.RunID, len(result.Coverage), len(result.Testing), len(result.Remediation))
			fmt.Printf("workbook: %s\nreport:   %s\n", cfg.Export.WorkbookPath, cfg.Export.ReportPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&store, "store", false, "persist the run to DATABASE_URL")
	cmd.Flags().BoolVar(&printJSON, "json", false, "print the full result as JSON")
	return cmd
}

func newServeCmd() *cobra.Command {
	var store bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the experiment grid, then serve the results over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			result, err := executeRun(cmd.Context(), cfg, store)
			if err != nil {
				return err
			}
			server := api.NewServer(result, internal.DefaultLogger)
			return server.ListenAndServe(cfg.Server.Port)
		},
	}

	cmd.Flags().BoolVar(&store, "store", false, "persist the run to DATABASE_URL")
	return cmd
}

func executeRun(ctx context.Context, cfg *config.Config, store bool) (result *simulation.RunResult, err error) {
	var repo ports.ResultsRepositoryPort
	if store {
		if !cfg.Database.Enabled {
			return nil, fmt.Errorf("--store requires DATABASE_URL to be set")
		}
		repo, err = postgres.NewResultsRepository(cfg.Database.URL)
		if err != nil {
			return nil, err
		}
	}

	exporters := []ports.ReportExporterPort{
		export.NewWorkbookExporter(cfg.Export.WorkbookPath),
		export.NewMarkdownExporter(cfg.Export.ReportPath),
	}

	service := app.NewRunService(
		cfg.Grid,
		distributions.Reference(),
		rng.NewStreamAdapter(),
		repo,
		exporters,
		internal.DefaultLogger,
	)
	if ctx == nil {
		ctx = context.Background()
	}
	return service.Execute(ctx)
}
