package spcode

// Feasible keeps the removal sets whose summed credits do not exceed creditCap.
// Input order is preserved. Codes missing from credits count as zero.
func Feasible(sets []RemovalSet, credits map[string]float64, creditCap float64) []RemovalSet {
	out := make([]RemovalSet, 0, len(sets))
	for _, set := range sets {
		if RemovedCredits(set, credits) <= creditCap {
			out = append(out, set)
		}
	}
	return out
}

// RemovedCredits sums the credits of every code in set.
func RemovedCredits(set RemovalSet, credits map[string]float64) float64 {
	var total float64
	for _, code := range set {
		total += credits[code]
	}
	return total
}
