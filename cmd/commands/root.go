package commands

// Root command for the Cobra CLI
// Running it without a subcommand generates the response time chart
// Registers the summary and publish subcommands

import (
	"fmt"
	"io"

	"support-chart/internal/config"
	"support-chart/internal/dataset"
	"support-chart/internal/features/charts"
	"support-chart/internal/infra/fs"
	"support-chart/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "support-chart",
		Short: "Generate a customer support response time violin chart",
		Long: `support-chart synthesizes response times for each support channel and
renders their distributions as a 512x512 violin chart in chart.png.`,
		Version:       "1.0.0",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate,
	}

	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newPublishCmd())
	return rootCmd
}

func Execute() error {
	defer log.Sync()
	return NewRootCmd().Execute()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	if _, err := generateChart(cfg); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), charts.SuccessMessage)
	return nil
}

// setup loads the config and configures logging for any command.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := log.Init(log.Options{File: cfg.Log.File, Level: cfg.Log.Level}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// generateChart runs sampling, rendering and export, returning the chart path.
func generateChart(cfg *config.Config) (string, error) {
	ds, err := dataset.Generate(cfg.DatasetOptions())
	if err != nil {
		return "", fmt.Errorf("failed to generate dataset: %w", err)
	}
	log.LogDebug("Dataset generated",
		zap.Int("samples", ds.Len()),
		zap.Strings("channels", ds.Channels),
		zap.Uint64("seed", ds.Seed))

	if cfg.Chart.DataOut != "" {
		if err := fs.SaveDataset(cfg.Chart.DataOut, ds); err != nil {
			return "", err
		}
		log.LogInfo("Dataset saved", zap.String("path", cfg.Chart.DataOut))
	}

	return charts.GenerateResponseTimeChart(ds, chartOptions(cfg))
}

func chartOptions(cfg *config.Config) charts.Options {
	return charts.Options{
		Output:       cfg.Chart.Output,
		Size:         cfg.Chart.Size,
		DPI:          cfg.Chart.DPI,
		FigureInches: cfg.Chart.FigureInches,
		Title:        cfg.Chart.Title,
		XLabel:       cfg.Chart.XLabel,
		YLabel:       cfg.Chart.YLabel,
		FontPath:     cfg.Chart.FontPath,
		Theme:        charts.WhiteGridTalk(),
	}
}

func writeLine(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, format+"\n", a...)
}
