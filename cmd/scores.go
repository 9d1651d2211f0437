package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/carrierassign/app"
	"github.com/kilianp07/carrierassign/config"
	"github.com/kilianp07/carrierassign/core/model"
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Print the carrier scores derived from the dataset",
	RunE:  runScores,
}

func init() {
	rootCmd.AddCommand(scoresCmd)
}

func runScores(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	scores, err := p.Scores(cfg.Input.Path)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), cfg.Report.Output, func(w io.Writer) error {
		if cfg.Report.Format == config.FormatJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(scores.Entries())
		}
		return writeScoreTable(w, scores)
	})
}

func writeScoreTable(w io.Writer, scores model.Scores) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "CARRIER\tSHIPMENTS\tMEAN LATENESS\tSCORE"); err != nil {
		return err
	}
	for _, e := range scores.Entries() {
		if _, err := fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.6f\n", e.Carrier, e.Shipments, e.MeanLateness, e.Score); err != nil {
			return err
		}
	}
	return tw.Flush()
}
