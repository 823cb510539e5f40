package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cognicore/qacurate/internal/corpus"
	"github.com/cognicore/qacurate/pkg/qacurate/completion"
	"github.com/cognicore/qacurate/pkg/qacurate/evaluate"
)

func (a *app) evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score the predictions stored in a subset",
		Long: `evaluate reads a subset whose records carry a predicted answer and reports
substring accuracy and token F1 per category. Records without a prediction
are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := a.v.GetString("input")
			if input == "" {
				return fmt.Errorf("--input is required")
			}
			s, err := corpus.ReadSubset(input)
			if err != nil {
				return err
			}
			sum := evaluate.Evaluate(s)
			if path := a.v.GetString("output"); path != "" {
				if err := corpus.WriteJSON(path, sum); err != nil {
					return err
				}
			}
			if a.v.GetString("format") == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}
			return writeSummary(cmd.OutOrStdout(), sum)
		},
	}

	fl := cmd.Flags()
	fl.StringP("input", "i", "", "subset JSON with predictions")
	fl.StringP("output", "o", "", "write the summary to this JSON file")
	fl.String("format", "table", "output format: table or json")
	return cmd
}

func writeSummary(w io.Writer, sum evaluate.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tTOTAL\tCORRECT\tACCURACY\tF1")
	row := func(name string, s evaluate.Score) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.3f\t%.3f\n", name, s.Total, s.Correct, s.Accuracy, s.MeanF1)
	}
	for _, cs := range sum.Categories {
		row(cs.Name, cs.Score)
	}
	row("OVERALL", sum.Overall)
	if err := tw.Flush(); err != nil {
		return err
	}
	if sum.Skipped > 0 {
		fmt.Fprintf(w, "\n%d records without a prediction were skipped\n", sum.Skipped)
	}
	return nil
}

func (a *app) completionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion-prompts",
		Short: "Rewrite subset questions as completion prompts",
		Example: `  qacurate completion-prompts --input subset.json --output prompts.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := a.v.GetString("input")
			if input == "" {
				return fmt.Errorf("--input is required")
			}
			s, err := corpus.ReadSubset(input)
			if err != nil {
				return err
			}
			comps, err := a.components()
			if err != nil {
				return err
			}
			items := completion.ConvertSubset(s, comps.Config.Names())

			if out := a.v.GetString("output"); out != "" {
				if err := corpus.WriteJSON(out, items); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d prompts to %s\n", len(items), out)
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		},
	}

	fl := cmd.Flags()
	fl.StringP("input", "i", "", "subset JSON")
	fl.StringP("output", "o", "", "write prompts to this JSON file (default: stdout)")
	return cmd
}
