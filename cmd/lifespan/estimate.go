package main

import (
	"encoding/json"
	"strings"

	app "github.com/okian/lifespan/internal/app"
	"github.com/okian/lifespan/internal/domain/report"
	"github.com/spf13/cobra"
)

type estimateFlags struct {
	gender  string
	answers []string
	format  string
}

func newEstimateCmd(rf *rootFlags) *cobra.Command {
	f := &estimateFlags{}
	cmd := &cobra.Command{
		Use:   "estimate --gender <male|female> --answer <factor>=<answer> ...",
		Short: "Estimate from answers given as flags",
		Long: "Estimate from answers given as flags. Every factor needs exactly one --answer;\n" +
			"the factor may be named or given by its zero-based index.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEstimate(cmd, rf, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.gender, "gender", "", "Gender: male or female")
	flags.StringArrayVar(&f.answers, "answer", nil, "Answer as factor=answer (repeat per factor)")
	flags.StringVar(&f.format, "format", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("gender")
	return cmd
}

func runEstimate(cmd *cobra.Command, rf *rootFlags, f *estimateFlags) error {
	if f.format != "text" && f.format != "json" {
		return exitError(exitInput, "unknown format: %s", f.format)
	}
	responses, err := parseAnswers(f.answers)
	if err != nil {
		return err
	}

	svc, err := newService(cmd, rf)
	if err != nil {
		return err
	}
	defer svc.Stop()

	rep, err := svc.Estimate(cmd.Context(), app.Request{Gender: f.gender, Responses: responses})
	if err != nil {
		return exitError(exitInput, "%s: %v", app.ErrorKind(err), err)
	}

	out := cmd.OutOrStdout()
	if f.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return report.WriteText(out, rep)
}

// parseAnswers splits factor=answer pairs on the first '='; factor names may
// contain spaces but not '='.
func parseAnswers(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, answer, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, exitError(exitInput, "malformed --answer %q: want factor=answer", p)
		}
		if _, dup := out[name]; dup {
			return nil, exitError(exitInput, "duplicate --answer for %q", name)
		}
		out[name] = answer
	}
	return out, nil
}
