// Package spcode implements the SP-coding optimizer. Given one semester's
// modules it enumerates every set of modules that can be excluded from the
// average under a credit cap and computes the resulting weighted grade.
package spcode

// DefaultCreditCap is the maximum number of credits that may be SP coded in
// one semester.
const DefaultCreditCap = 30

// DefaultMaxModules bounds the number of modules per semester. Enumeration is
// O(2^N), so larger inputs are rejected instead of stalling the caller.
const DefaultMaxModules = 20

// Module is a single graded module within a semester.
type Module struct {
	Code    string  `json:"code"`
	Credits float64 `json:"credits"`
	Grade   float64 `json:"grade"`
}

// RemovalSet is a canonical (sorted) set of module codes to exclude from the
// semester average. The empty set is the baseline.
type RemovalSet []string

// Len returns the number of codes in the set.
func (s RemovalSet) Len() int { return len(s) }

// IsBaseline reports whether nothing is removed.
func (s RemovalSet) IsBaseline() bool { return len(s) == 0 }

// Contains reports whether code is part of the set.
func (s RemovalSet) Contains(code string) bool {
	for _, c := range s {
		if c == code {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same codes. Both sets must be
// canonical.
func (s RemovalSet) Equal(other RemovalSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Result pairs a feasible removal set with the grade of the remaining modules.
type Result struct {
	Remove RemovalSet `json:"remove"`
	Grade  float64    `json:"grade"`
}

// SemesterResult is the complete output of optimizing one semester.
// Immutable once computed.
type SemesterResult struct {
	CreditCap float64  `json:"credit_cap"`
	Modules   []Module `json:"modules"`
	Results   []Result `json:"results"`

	// Excluded holds feasible removal sets that leave no credits behind and
	// therefore have no defined grade.
	Excluded []RemovalSet `json:"excluded,omitempty"`
}

// Config controls the optimizer.
type Config struct {
	CreditCap  float64 `json:"credit_cap"`
	MaxModules int     `json:"max_modules"`
}

// DefaultConfig returns the optimizer defaults.
func DefaultConfig() Config {
	return Config{
		CreditCap:  DefaultCreditCap,
		MaxModules: DefaultMaxModules,
	}
}
