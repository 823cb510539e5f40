package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cognicore/qacurate/internal/logging"
	"github.com/cognicore/qacurate/pkg/qacurate"
	"github.com/cognicore/qacurate/pkg/qacurate/config"
	"github.com/cognicore/qacurate/pkg/qacurate/store"
	"github.com/cognicore/qacurate/pkg/qacurate/store/sqlite"
)

// app carries the state shared by every subcommand.
type app struct {
	v        *viper.Viper
	settings string
	log      *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "qacurate",
		Short: "Classify, group, balance and clean QA probing corpora",
		Long: `qacurate turns a flat corpus of question/answer records into a balanced
subset of entities per category.

Records are scored against keyword profiles, resolved to one category,
grouped by the entity their question is about, capped per category and
finally pruned by blacklists and keyword rules.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.settings, "settings", "", "settings file (yaml, json or toml)")
	pf.String("profiles", "", "category profile YAML (default: embedded profiles)")
	pf.Bool("debug", false, "enable debug logging")
	pf.String("log-format", "json", "log encoding: json or console")

	cmd.AddCommand(
		a.curateCmd(),
		a.classifyCmd(),
		a.evaluateCmd(),
		a.completionCmd(),
		a.probeCmd(),
		a.runsCmd(),
		a.profilesCmd(),
	)
	return cmd
}

// setup reads settings and environment, binds the running command's flags
// and builds the logger. Flags win over environment, which wins over the
// settings file.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.v.SetEnvPrefix("QACURATE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if a.settings != "" {
		a.v.SetConfigFile(a.settings)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read settings: %w", err)
		}
	}
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	log, err := logging.New(logging.Options{
		Verbose: a.v.GetBool("debug"),
		Format:  a.v.GetString("log-format"),
	})
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

// components loads the profile configuration named by --profiles.
func (a *app) components() (*config.Components, error) {
	l := &config.Loader{
		ProfilesPath:     a.v.GetString("profiles"),
		PerCategoryLimit: a.v.GetInt("limit"),
	}
	return l.Load()
}

// openStore opens the run database, or returns nil when no path is set.
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	path := a.v.GetString("db")
	if path == "" {
		return nil, nil
	}
	st, err := sqlite.OpenSQLite(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	return st, nil
}

// curator builds the pipeline facade with the configured store and workers.
func (a *app) curator(ctx context.Context) (*qacurate.Curator, error) {
	comps, err := a.components()
	if err != nil {
		return nil, err
	}
	st, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	cur, err := qacurate.New(qacurate.Options{
		Components: comps,
		Store:      st,
		Logger:     a.log,
		Workers:    a.v.GetInt("workers"),
	})
	if err != nil {
		if st != nil {
			st.Close()
		}
		return nil, err
	}
	return cur, nil
}
