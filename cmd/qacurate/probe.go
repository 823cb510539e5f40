package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/qacurate/internal/corpus"
	"github.com/cognicore/qacurate/internal/probe"
)

func (a *app) probeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Ask a chat model every question of a subset",
		Long: `probe sends each question of a subset to an OpenAI-compatible chat
completion endpoint and stores the reply as the record's prediction, ready
for evaluate.`,
		Example: `  qacurate probe --input subset.json --output probed.json \
    --base-url http://localhost:8000/v1/chat/completions --model qwen2.5-7b`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := a.v.GetString("input"), a.v.GetString("output")
			if input == "" || output == "" {
				return fmt.Errorf("--input and --output are required")
			}
			s, err := corpus.ReadSubset(input)
			if err != nil {
				return err
			}

			client := &probe.Client{
				BaseURL: a.v.GetString("base-url"),
				APIKey:  a.v.GetString("api-key"),
				Model:   a.v.GetString("model"),
				System:  a.v.GetString("system"),
			}
			start := time.Now()
			filled, n, err := probe.Fill(cmd.Context(), s, client, probe.FillOptions{
				Workers:   a.v.GetInt("workers"),
				Overwrite: a.v.GetBool("overwrite"),
				Logger:    a.log,
			})
			if err != nil {
				return err
			}
			if err := corpus.WriteSubset(output, filled); err != nil {
				return err
			}
			a.log.Info("probe finished",
				zap.Int("asked", n),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("path", output))
			fmt.Fprintf(cmd.OutOrStdout(), "asked %d questions, wrote %s\n", n, output)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringP("input", "i", "", "subset JSON")
	fl.StringP("output", "o", "", "write the subset with predictions here")
	fl.String("base-url", "http://localhost:8000/v1/chat/completions", "chat completion endpoint")
	fl.String("model", "", "model name")
	fl.String("api-key", "", "bearer token (or QACURATE_API_KEY)")
	fl.String("system", "", "system prompt override")
	fl.Int("workers", 4, "concurrent requests")
	fl.Bool("overwrite", false, "replace existing predictions")
	return cmd
}
