package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"specsearch/adapters/ingest"
	"specsearch/adapters/ols"
	"specsearch/adapters/postgres"
	"specsearch/app"
	"specsearch/domain/core"
	"specsearch/domain/result"
	"specsearch/domain/run"
	"specsearch/domain/spec"
	"specsearch/internal"
	"specsearch/internal/config"
	apperrors "specsearch/internal/errors"
	"specsearch/internal/report"
	"specsearch/ui"
)

const defaultOutputDir = "regression_search_output"

func main() {
	// Optional .env for DATABASE_URL / LOG_LEVEL
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "specsearch",
		Short:         "Iteratively search for statistically significant regression models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newSearchCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", errorCode(err), err)
		os.Exit(1)
	}
}

// errorCode maps a run failure to its stable exit code: domain sentinels by
// kind, adapter errors by their own code.
func errorCode(err error) string {
	switch {
	case core.IsConfigError(err), errors.Is(err, core.ErrEmptyFormula):
		return apperrors.CodeConfigInvalid
	case core.IsDatasetError(err), errors.Is(err, core.ErrYearDropTooLarge):
		return apperrors.CodeDataError
	case core.IsFitError(err):
		return apperrors.CodeFitError
	}
	return apperrors.Code(err)
}

func newSearchCmd() *cobra.Command {
	var dataPath string
	var configPath string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run the regression specification search",
		Long: `Enumerate regression specifications over a dataset and record coefficient
diagnostics for every fit: baseline main effects, incremental controls,
moderation (interaction) checks and early-year sample trims.

The configuration file is JSON with the keys dependent, main_predictors,
controls, moderators, year_variable, drop_earliest_years and model_type.
Results are written as CSV, JSON and Excel tables plus a Markdown summary.

Example: specsearch search --data data/panel.csv --config configs/spec_config.json --output results/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), dataPath, configPath, outputDir)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Path to the dataset (CSV or Excel)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the JSON configuration file")
	cmd.Flags().StringVar(&outputDir, "output", defaultOutputDir, "Directory to store outputs")
	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("config")

	return cmd
}

func newServeCmd() *cobra.Command {
	var outputDir string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Browse a finished output directory over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.NewServer(outputDir).ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVar(&outputDir, "output", defaultOutputDir, "Output directory to serve")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	return cmd
}

func runSearch(ctx context.Context, dataPath, configPath, outputDir string) error {
	cfg := config.Load()
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.Logging.Level))

	req, err := spec.LoadFile(configPath)
	if err != nil {
		return err
	}

	data, err := ingest.NewReader(dataPath).Read()
	if err != nil {
		return err
	}
	internal.DefaultLogger.Info("[CLI] loaded dataset %s (%d rows, %d columns)",
		dataPath, data.Rows(), len(data.Columns()))

	service := app.NewSearchService(ols.NewEngine())
	outcome, err := service.Run(req, data)
	if err != nil {
		return err
	}

	manifest := run.NewManifest(dataPath, configPath, outputDir)
	manifest.DataVariants = outcome.DataVariants
	manifest.ModelsFitted = outcome.FormulasFitted
	manifest.RecordCount = len(outcome.Results)

	profiles := report.ProfileVariables(req.Variables(), data)
	if err := report.NewWriter(outputDir).WriteAll(outcome.Results, profiles, manifest); err != nil {
		return err
	}

	if cfg.PersistenceEnabled() {
		if err := archiveResults(ctx, cfg.Database.URL, manifest, outcome); err != nil {
			return err
		}
	}

	fmt.Printf("Stored %d regression coefficient records in %s.\n", len(outcome.Results), outputDir)
	return nil
}

// archiveResults mirrors the file artifacts into Postgres. Failures are
// fatal: a run either archives completely or not at all.
func archiveResults(ctx context.Context, databaseURL string, manifest *run.Manifest, outcome *app.Outcome) error {
	repo, err := postgres.NewResultsRepository(databaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	return repo.SaveRun(ctx, manifest.RunID, result.Records(outcome.Results))
}
