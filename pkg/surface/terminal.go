package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spcalc/spcalc/pkg/spcode"
)

// TerminalRenderer renders a report as colored terminal output.
type TerminalRenderer struct {
	Precision int
}

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
)

func outcomeColor(o spcode.Outcome) string {
	if noColor() {
		return ""
	}
	switch o {
	case spcode.OutcomeBetter:
		return colorGreen
	case spcode.OutcomeWorse:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, report *spcode.Report) error {
	view := BuildView(report, r.Precision)

	if len(view.Semesters) == 0 {
		fmt.Fprintln(w, "No modules entered.")
		return nil
	}

	for i, sv := range view.Semesters {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf("%s (baseline %s)", sv.Title, formatGrade(sv.Baseline, r.Precision))))
		fmt.Fprintf(w, "%s\n\n", dim(fmt.Sprintf("Up to %g credits can be SP coded", view.CreditCap)))

		// Pad the removed-module column so grades line up.
		width := 0
		for _, rv := range sv.Results {
			if n := len(removedLabel(rv.Remove)); n > width {
				width = n
			}
		}

		for _, rv := range sv.Results {
			grade := formatGrade(rv.Grade, r.Precision)
			fmt.Fprintf(w, "  By SP coding %-*s  your grade becomes %s\n",
				width, removedLabel(rv.Remove), colored(grade, outcomeColor(rv.Outcome)))
		}

		if len(sv.Excluded) > 0 {
			labels := make([]string, len(sv.Excluded))
			for j, ex := range sv.Excluded {
				labels[j] = strings.Join(ex, "+")
			}
			fmt.Fprintf(w, "\n  %s\n", dim("Not shown (removes every module): "+strings.Join(labels, ", ")))
		}
	}

	return nil
}
