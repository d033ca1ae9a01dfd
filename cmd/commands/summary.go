package commands

// Prints descriptive statistics of the synthetic dataset per channel
// Uses the same sampling settings as chart generation, or a saved dataset file

import (
	"fmt"
	"text/tabwriter"

	"support-chart/internal/dataset"
	"support-chart/internal/infra/fs"

	"github.com/spf13/cobra"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-channel response time statistics",
		Long:  `Generate the dataset (or load one saved with --data-out) and print count, mean, std and quartiles per channel.`,
		Args:  cobra.NoArgs,
		RunE:  runSummary,
	}
	cmd.Flags().String("from", "", "Summarize a dataset JSON file instead of generating one")
	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	var ds *dataset.Dataset
	from, _ := cmd.Flags().GetString("from")
	if from != "" {
		ds, err = fs.LoadDataset(from)
	} else {
		ds, err = dataset.Generate(cfg.DatasetOptions())
	}
	if err != nil {
		return fmt.Errorf("failed to prepare dataset: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	writeLine(tw, "channel\tcount\tmean\tstd\tmin\tq1\tmedian\tq3\tmax\t")
	for _, s := range dataset.Summarize(ds) {
		writeLine(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t",
			s.Channel, s.Count, s.Mean, s.StdDev, s.Min, s.Q1, s.Median, s.Q3, s.Max)
	}
	return tw.Flush()
}
