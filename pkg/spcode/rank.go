package spcode

import (
	"math"
	"sort"
)

// DefaultPrecision is the number of decimal places grades are shown with.
const DefaultPrecision = 2

// Outcome classifies a result against the baseline.
type Outcome string

const (
	OutcomeBetter Outcome = "better"
	OutcomeWorse  Outcome = "worse"
	OutcomeSame   Outcome = "same"
)

// Baseline returns the result with nothing removed.
func (r *SemesterResult) Baseline() (Result, bool) {
	for _, res := range r.Results {
		if res.Remove.IsBaseline() {
			return res, true
		}
	}
	return Result{}, false
}

// Ranked returns a copy of the results ordered best first. Ties on grade go
// to the option removing fewer modules, then to the lexicographically
// smaller set, so the order is total.
func (r *SemesterResult) Ranked() []Result {
	ranked := append([]Result(nil), r.Results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return lessResult(ranked[i], ranked[j])
	})
	return ranked
}

// Best returns the top-ranked result.
func (r *SemesterResult) Best() (Result, bool) {
	ranked := r.Ranked()
	if len(ranked) == 0 {
		return Result{}, false
	}
	return ranked[0], true
}

func lessResult(a, b Result) bool {
	if a.Grade != b.Grade {
		return a.Grade > b.Grade
	}
	if len(a.Remove) != len(b.Remove) {
		return len(a.Remove) < len(b.Remove)
	}
	return lessSet(a.Remove, b.Remove)
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Compare classifies res against baseline after rounding both to places.
func Compare(res, baseline Result, places int) Outcome {
	g, b := Round(res.Grade, places), Round(baseline.Grade, places)
	switch {
	case g > b:
		return OutcomeBetter
	case g < b:
		return OutcomeWorse
	default:
		return OutcomeSame
	}
}
