package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/qacurate/internal/corpus"
	"github.com/cognicore/qacurate/pkg/qacurate/report"
)

func (a *app) curateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Build a balanced, cleaned subset from a corpus",
		Example: `  qacurate curate --input corpus.jsonl --output subset.json
  qacurate curate --input corpus.json --limit 10 --db runs.db --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			input := a.v.GetString("input")
			if input == "" {
				return fmt.Errorf("--input is required")
			}

			records, err := corpus.LoadRecords(input, a.log)
			if err != nil {
				return err
			}

			cur, err := a.curator(ctx)
			if err != nil {
				return err
			}
			defer cur.Close()

			res, err := cur.Run(ctx, records, input)
			if err != nil {
				return err
			}

			if out := a.v.GetString("output"); out != "" {
				if err := corpus.WriteSubset(out, res.Subset); err != nil {
					return err
				}
				a.log.Info("subset written", zap.String("path", out))
			}
			if path := a.v.GetString("report"); path != "" {
				if err := corpus.WriteJSON(path, res.Report); err != nil {
					return err
				}
				a.log.Info("report written", zap.String("path", path))
			}

			f := report.NewFormatter(a.v.GetString("format"), a.v.GetBool("color"))
			return f.Write(cmd.OutOrStdout(), res.Report)
		},
	}

	fl := cmd.Flags()
	fl.StringP("input", "i", "", "corpus file (JSON array or JSONL)")
	fl.StringP("output", "o", "", "write the curated subset to this JSON file")
	fl.String("report", "", "write the run report to this JSON file")
	fl.String("db", "", "store the run in this SQLite database")
	fl.Int("limit", 0, "entities kept per category (default: from profiles)")
	fl.Int("workers", runtime.NumCPU(), "classification shards")
	fl.String("format", "table", "report format: table or json")
	fl.Bool("color", false, "colour the table report")
	return cmd
}
