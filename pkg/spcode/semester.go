package spcode

import "fmt"

// Semester identifies which half of the year a module was taken in.
type Semester string

const (
	SemesterOne Semester = "sem1"
	SemesterTwo Semester = "sem2"
)

// Semesters lists every semester in report order.
func Semesters() []Semester { return []Semester{SemesterOne, SemesterTwo} }

// Title returns the human-readable semester name.
func (s Semester) Title() string {
	switch s {
	case SemesterOne:
		return "Semester One"
	case SemesterTwo:
		return "Semester Two"
	default:
		return string(s)
	}
}

// Entry is one module row as supplied by a form or a modules file.
type Entry struct {
	ModuleCode string   `json:"moduleCode" yaml:"moduleCode" validate:"required"`
	Grade      float64  `json:"grade" yaml:"grade" validate:"gte=0"`
	Credits    float64  `json:"credits" yaml:"credits" validate:"gt=0"`
	Semester   Semester `json:"semester" yaml:"semester" validate:"oneof=sem1 sem2"`
}

// Module converts the entry into the optimizer's input record.
func (e Entry) Module() Module {
	return Module{Code: e.ModuleCode, Credits: e.Credits, Grade: e.Grade}
}

// SemesterReport is the optimizer output for one semester.
type SemesterReport struct {
	Semester Semester `json:"semester"`
	*SemesterResult
}

// Report holds the results for every semester that had modules.
type Report struct {
	CreditCap float64          `json:"credit_cap"`
	Semesters []SemesterReport `json:"semesters"`
}

// Semester returns the report for s, if present.
func (r *Report) Semester(s Semester) (SemesterReport, bool) {
	for _, sr := range r.Semesters {
		if sr.Semester == s {
			return sr, true
		}
	}
	return SemesterReport{}, false
}

// Calculate validates entries, splits them by semester and optimizes each
// semester independently. Semesters without entries are omitted.
func (o *Optimizer) Calculate(entries []Entry) (*Report, error) {
	if len(entries) == 0 {
		return nil, ErrNoModules
	}
	if err := ValidateEntries(entries); err != nil {
		return nil, err
	}

	bySemester := make(map[Semester][]Module, 2)
	for _, e := range entries {
		bySemester[e.Semester] = append(bySemester[e.Semester], e.Module())
	}

	report := &Report{CreditCap: o.cfg.CreditCap}
	for _, sem := range Semesters() {
		modules := bySemester[sem]
		if len(modules) == 0 {
			continue
		}
		res, err := o.Optimize(modules)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sem, err)
		}
		report.Semesters = append(report.Semesters, SemesterReport{Semester: sem, SemesterResult: res})
	}
	return report, nil
}
