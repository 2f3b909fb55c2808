// Command lifespan asks the lifestyle questionnaire on the terminal and
// prints a life expectancy estimate.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	app "github.com/okian/lifespan/internal/app"
	"github.com/okian/lifespan/internal/config"
	"github.com/okian/lifespan/internal/domain/factor"
	"github.com/okian/lifespan/pkg/logger"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Exit codes.
const (
	exitInput = 2
	exitTable = 3
)

type rootFlags struct {
	tablePath   string
	damping     float64
	baselineAge float64
	logLevel    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:           "lifespan",
		Short:         "Estimate life expectancy from lifestyle factors",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&f.tablePath, "table", "", "Factor table file, .csv or .yaml (default: embedded table)")
	flags.Float64Var(&f.damping, "damping", 0, "Damping constant (default: from config, 4)")
	flags.Float64Var(&f.baselineAge, "baseline", 0, "Baseline age (default: from config, 75)")
	flags.StringVar(&f.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	root.AddCommand(newAskCmd(f), newEstimateCmd(f), newFactorsCmd(f))
	return root
}

// newService builds a started estimator from config overlaid with flags.
func newService(cmd *cobra.Command, f *rootFlags) (*app.Service, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Logs go to stderr so they never interleave with the questionnaire.
	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(f.logLevel); err != nil {
		return nil, exitError(exitInput, "invalid --log-level: %v", err)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, exitError(exitInput, "failed to load config: %v", err)
	}
	flags := cmd.Flags()
	if flags.Changed("table") {
		cfg.TablePath = f.tablePath
	}
	if flags.Changed("damping") {
		cfg.DampingConstant = f.damping
	}
	if flags.Changed("baseline") {
		cfg.BaselineAge = f.baselineAge
	}
	if err := cfg.Validate(); err != nil {
		return nil, exitError(exitInput, "%v", err)
	}

	table, err := loadTable(cfg.TablePath)
	if err != nil {
		return nil, exitError(exitTable, "failed to load factor table: %v", err)
	}

	svc := app.New(
		app.WithLogger(logger.Named("lifespan")),
		app.WithTable(table),
		app.WithDampingConstant(cfg.DampingConstant),
		app.WithBaselineAge(cfg.BaselineAge),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func loadTable(path string) (*factor.Table, error) {
	if path == "" {
		return factor.Default()
	}
	return factor.LoadFile(path)
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
