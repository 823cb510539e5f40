package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cognicore/qacurate/pkg/qacurate"
	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
)

type classifyOutput struct {
	Category string         `json:"category"`
	Entity   string         `json:"entity"`
	Raw      map[string]int `json:"raw"`
	Adjusted map[string]int `json:"adjusted"`
}

func (a *app) classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Explain how a single question/answer pair is classified",
		Example: `  qacurate classify --question "¿Cuál es la ocupación de Diego Rivera?" --answer pintor`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := dataset.Record{
				Question: a.v.GetString("question"),
				Answer:   a.v.GetString("answer"),
			}
			if rec.Question == "" {
				return fmt.Errorf("--question is required")
			}

			comps, err := a.components()
			if err != nil {
				return err
			}
			cur, err := qacurate.New(qacurate.Options{Components: comps, Logger: a.log})
			if err != nil {
				return err
			}
			ex := cur.Explain(rec)

			w := cmd.OutOrStdout()
			if a.v.GetString("format") == "json" {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(classifyOutput{
					Category: ex.Decision.Category,
					Entity:   ex.Entity,
					Raw:      ex.Decision.Raw,
					Adjusted: ex.Decision.Adjusted,
				})
			}

			bold := fmt.Sprint
			if a.v.GetBool("color") {
				c := color.New(color.FgGreen, color.Bold)
				c.EnableColor()
				bold = c.SprintFunc()
			}
			fmt.Fprintf(w, "Category: %s\n", bold(ex.Decision.Category))
			entity := ex.Entity
			if entity == "" {
				entity = "(none)"
			}
			fmt.Fprintf(w, "Entity:   %s\n\n", entity)

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tRAW\tADJUSTED")
			for _, name := range comps.Config.Names() {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", name, ex.Decision.Raw[name], ex.Decision.Adjusted[name])
			}
			return tw.Flush()
		},
	}

	fl := cmd.Flags()
	fl.StringP("question", "q", "", "question text")
	fl.StringP("answer", "a", "", "answer text")
	fl.String("format", "table", "output format: table or json")
	fl.Bool("color", false, "colour the output")
	return cmd
}
