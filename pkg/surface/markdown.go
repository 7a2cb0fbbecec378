package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/spcalc/spcalc/pkg/spcode"
)

// MarkdownRenderer produces a Markdown summary with one table per semester.
type MarkdownRenderer struct {
	Precision int
}

func (r *MarkdownRenderer) Render(w io.Writer, report *spcode.Report) error {
	_, err := io.WriteString(w, r.BuildSummary(report))
	return err
}

// BuildSummary returns the Markdown document for a report.
func (r *MarkdownRenderer) BuildSummary(report *spcode.Report) string {
	view := BuildView(report, r.Precision)
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## SP coding options (cap %g credits)\n\n", view.CreditCap))
	if len(view.Semesters) == 0 {
		sb.WriteString("_No modules entered._\n")
		return sb.String()
	}

	for _, sv := range view.Semesters {
		sb.WriteString(fmt.Sprintf("### %s (baseline %s)\n\n", sv.Title, formatGrade(sv.Baseline, r.Precision)))
		sb.WriteString("| SP code | Grade | vs baseline |\n|---------|-------|-------------|\n")
		for _, rv := range sv.Results {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
				removedLabel(rv.Remove), formatGrade(rv.Grade, r.Precision), outcomeIcon(rv.Outcome)))
		}
		if len(sv.Excluded) > 0 {
			sb.WriteString(fmt.Sprintf("\n_%d option(s) remove every module and have no grade._\n", len(sv.Excluded)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func outcomeIcon(o spcode.Outcome) string {
	switch o {
	case spcode.OutcomeBetter:
		return ":arrow_up: better"
	case spcode.OutcomeWorse:
		return ":arrow_down: worse"
	default:
		return "same"
	}
}

func removedLabel(remove []string) string {
	if len(remove) == 0 {
		return "nothing"
	}
	return strings.Join(remove, ", ")
}

func formatGrade(g float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, g)
}
