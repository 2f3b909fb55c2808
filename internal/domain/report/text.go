package report

import (
	"fmt"
	"io"
	"strings"
)

// WriteText renders r as the plain-text report shown by the console.
func WriteText(w io.Writer, r Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on your responses and your gender (%s), we estimate that your life expectancy will be %d years.\n\n",
		r.Gender, r.EstimatedAge)
	b.WriteString(r.Summary + "\n\n")

	if len(r.RankedFactors) > 0 {
		b.WriteString("Factors that drove the estimate:\n")
		for _, f := range r.RankedFactors {
			fmt.Fprintf(&b, "  %-40s %+7.2f years (%.1f%% of %+g)\n", f.Name, f.AdjustedImpact, f.PercentageOfFullImpact, f.RawImpact)
		}
		b.WriteString("\n")
	}

	b.WriteString("Factors that negatively affected your life expectancy:\n  " + joinOrNone(r.NegativeFactors) + "\n\n")
	b.WriteString("Factors that positively affected your life expectancy:\n  " + joinOrNone(r.PositiveFactors) + "\n\n")
	b.WriteString(r.Recommendation + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
