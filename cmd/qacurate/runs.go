package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/qacurate/internal/corpus"
	"github.com/cognicore/qacurate/pkg/qacurate/report"
	"github.com/cognicore/qacurate/pkg/qacurate/store"
)

func (a *app) runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect curation runs stored in a database",
	}
	cmd.PersistentFlags().String("db", "runs.db", "SQLite run database")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.requireStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), a.v.GetInt("limit"))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tSOURCE\tENTITIES\tRECORDS")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
					r.ID, r.CreatedAt.Format(time.RFC3339), r.Source, r.Entities, r.Records)
			}
			return tw.Flush()
		},
	}
	list.Flags().Int("limit", 20, "maximum runs to list (0 lists all)")

	show := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Print the report of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.requireStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out := a.v.GetString("output"); out != "" {
				if err := corpus.WriteSubset(out, run.Subset); err != nil {
					return err
				}
			}
			f := report.NewFormatter(a.v.GetString("format"), a.v.GetBool("color"))
			return f.Write(cmd.OutOrStdout(), run.Report)
		},
	}
	show.Flags().StringP("output", "o", "", "also export the run's subset to this JSON file")
	show.Flags().String("format", "table", "report format: table or json")
	show.Flags().Bool("color", false, "colour the table report")

	cmd.AddCommand(list, show)
	return cmd
}

func (a *app) requireStore(ctx context.Context) (store.Store, error) {
	st, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("--db is required")
	}
	return st, nil
}

func (a *app) profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "Validate and print the active category profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comps, err := a.components()
			if err != nil {
				return err
			}
			data, err := comps.Config.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
