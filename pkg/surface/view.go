package surface

import "github.com/spcalc/spcalc/pkg/spcode"

// ReportView is the display form of a report: grades rounded and each option
// classified against the semester baseline.
type ReportView struct {
	ID        string         `json:"id,omitempty"`
	CreditCap float64        `json:"credit_cap"`
	Semesters []SemesterView `json:"semesters"`
}

// SemesterView is one semester, options ranked best first.
type SemesterView struct {
	Semester spcode.Semester `json:"semester"`
	Title    string          `json:"title"`
	Baseline float64         `json:"baseline"`
	Results  []ResultView    `json:"results"`
	Excluded [][]string      `json:"excluded,omitempty"`
}

// ResultView is a single SP-coding option.
type ResultView struct {
	Remove  []string       `json:"remove"`
	Grade   float64        `json:"grade"`
	Outcome spcode.Outcome `json:"outcome"`
}

// BuildView converts a report into its display form.
func BuildView(report *spcode.Report, precision int) ReportView {
	view := ReportView{
		CreditCap: report.CreditCap,
		Semesters: make([]SemesterView, 0, len(report.Semesters)),
	}
	for _, sr := range report.Semesters {
		view.Semesters = append(view.Semesters, buildSemesterView(sr, precision))
	}
	return view
}

func buildSemesterView(sr spcode.SemesterReport, precision int) SemesterView {
	base, _ := sr.Baseline()
	sv := SemesterView{
		Semester: sr.Semester,
		Title:    sr.Semester.Title(),
		Baseline: spcode.Round(base.Grade, precision),
	}
	for _, res := range sr.Ranked() {
		remove := []string(res.Remove)
		if remove == nil {
			remove = []string{}
		}
		sv.Results = append(sv.Results, ResultView{
			Remove:  remove,
			Grade:   spcode.Round(res.Grade, precision),
			Outcome: spcode.Compare(res, base, precision),
		})
	}
	for _, ex := range sr.Excluded {
		sv.Excluded = append(sv.Excluded, []string(ex))
	}
	return sv
}
