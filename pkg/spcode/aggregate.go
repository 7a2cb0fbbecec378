package spcode

// Aggregate returns the credit-weighted average grade of the modules that are
// not in remove. It returns ErrNoRemainingCredits when nothing is left.
func Aggregate(modules []Module, remove RemovalSet) (float64, error) {
	var totalCredits float64
	for _, m := range modules {
		if !remove.Contains(m.Code) {
			totalCredits += m.Credits
		}
	}
	if totalCredits <= 0 {
		return 0, ErrNoRemainingCredits
	}

	var grade float64
	for _, m := range modules {
		if remove.Contains(m.Code) {
			continue
		}
		grade += m.Grade * (m.Credits / totalCredits)
	}
	return grade, nil
}
