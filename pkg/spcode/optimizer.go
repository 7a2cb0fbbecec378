package spcode

import (
	"errors"
	"fmt"
	"math"
)

// Optimizer enumerates SP-coding options for a semester. It holds no state
// beyond its configuration and is safe for concurrent use.
type Optimizer struct {
	cfg Config
}

// New creates an Optimizer. Zero fields in cfg fall back to DefaultConfig.
func New(cfg Config) *Optimizer {
	def := DefaultConfig()
	if cfg.CreditCap == 0 {
		cfg.CreditCap = def.CreditCap
	}
	if cfg.MaxModules == 0 {
		cfg.MaxModules = def.MaxModules
	}
	return &Optimizer{cfg: cfg}
}

// Config returns the effective configuration.
func (o *Optimizer) Config() Config { return o.cfg }

// Validate checks that the configuration can be used.
func (c Config) Validate() error {
	if c.CreditCap <= 0 || math.IsNaN(c.CreditCap) || math.IsInf(c.CreditCap, 0) {
		return fmt.Errorf("%w: credit cap must be positive, got %v", ErrInvalidConfig, c.CreditCap)
	}
	if c.MaxModules < 1 || c.MaxModules > 63 {
		return fmt.Errorf("%w: max modules must be between 1 and 63, got %d", ErrInvalidConfig, c.MaxModules)
	}
	return nil
}

// Optimize computes every feasible SP-coding option for one semester.
//
// Removal sets whose credits exceed the cap are dropped. Sets that remove
// every module have no defined grade and are reported in Excluded instead of
// Results. The baseline (nothing removed) is always present in Results.
func (o *Optimizer) Optimize(modules []Module) (*SemesterResult, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := o.checkModules(modules); err != nil {
		return nil, err
	}

	codes := make([]string, len(modules))
	credits := make(map[string]float64, len(modules))
	for i, m := range modules {
		codes[i] = m.Code
		credits[m.Code] = m.Credits
	}

	feasible := Feasible(Enumerate(codes), credits, o.cfg.CreditCap)

	result := &SemesterResult{
		CreditCap: o.cfg.CreditCap,
		Modules:   append([]Module(nil), modules...),
		Results:   make([]Result, 0, len(feasible)),
	}
	for _, set := range feasible {
		grade, err := Aggregate(modules, set)
		if errors.Is(err, ErrNoRemainingCredits) {
			result.Excluded = append(result.Excluded, set)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("aggregating %v: %w", []string(set), err)
		}
		result.Results = append(result.Results, Result{Remove: set, Grade: grade})
	}

	return result, nil
}

func (o *Optimizer) checkModules(modules []Module) error {
	if len(modules) == 0 {
		return ErrNoModules
	}
	if len(modules) > o.cfg.MaxModules {
		return fmt.Errorf("%w: %d modules exceeds the limit of %d", ErrTooManyModules, len(modules), o.cfg.MaxModules)
	}

	seen := make(map[string]bool, len(modules))
	for i, m := range modules {
		if m.Code == "" {
			return fmt.Errorf("%w (module %d)", ErrEmptyCode, i)
		}
		if !(m.Credits > 0) || math.IsInf(m.Credits, 0) {
			return fmt.Errorf("%w: %s has %v", ErrInvalidCredits, m.Code, m.Credits)
		}
		if math.IsNaN(m.Grade) || math.IsInf(m.Grade, 0) {
			return fmt.Errorf("%w: %s has %v", ErrInvalidGrade, m.Code, m.Grade)
		}
		if seen[m.Code] {
			return fmt.Errorf("%w: %s", ErrDuplicateCode, m.Code)
		}
		seen[m.Code] = true
	}
	return nil
}
