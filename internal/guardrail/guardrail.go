package guardrail

import (
	"fmt"

	"companionforge/internal/faults"
	"companionforge/internal/record"
)

// Outcome is the result of one check.
type Outcome struct {
	failed  bool
	record  string
	message string
}

// Pass is the passing outcome.
func Pass() Outcome { return Outcome{} }

// Fail reports a violation by rec.
func Fail(rec record.Record, format string, args ...any) Outcome {
	name := ""
	if rec != nil {
		name = rec.EditorID()
		if name == "" {
			name = rec.ID().String()
		}
	}
	return Outcome{failed: true, record: name, message: fmt.Sprintf(format, args...)}
}

// Failed reports whether the outcome is a violation.
func (o Outcome) Failed() bool { return o.failed }

// Check is one named rule.
type Check struct {
	Name string
	Run  func(*record.Package) Outcome
}

// Violation is the single failure that stopped validation. It matches
// faults.ErrGuardrail under errors.Is.
type Violation struct {
	Check   string
	Record  string
	Message string
}

func (v *Violation) Error() string {
	if v.Record == "" {
		return fmt.Sprintf("%s: %s", v.Check, v.Message)
	}
	return fmt.Sprintf("%s: %s: %s", v.Check, v.Record, v.Message)
}

func (v *Violation) Unwrap() error { return faults.ErrGuardrail }

// Status is the state of a check after evaluation.
type Status int

const (
	StatusSkipped Status = iota
	StatusPassed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "pass"
	case StatusFailed:
		return "fail"
	default:
		return "skipped"
	}
}

// Result is the status of one check.
type Result struct {
	Check  string
	Status Status
	Detail string
}

// Report lists every check with its status. Violation is nil when all
// checks passed.
type Report struct {
	Results   []Result
	Violation *Violation
}

// Passed reports whether every check passed.
func (r Report) Passed() bool { return r.Violation == nil }

// Evaluate runs checks in order over pkg, stopping at the first failure.
// Checks after the failure are reported as skipped.
func Evaluate(pkg *record.Package, checks []Check) (Report, error) {
	if pkg == nil || pkg.Registry == nil || !pkg.Registry.Sealed() {
		return Report{}, faults.Wrap(faults.ErrConstruction, "validate", "", "validation requires a sealed package", nil)
	}
	report := Report{Results: make([]Result, 0, len(checks))}
	for _, c := range checks {
		if report.Violation != nil {
			report.Results = append(report.Results, Result{Check: c.Name, Status: StatusSkipped})
			continue
		}
		outcome := c.Run(pkg)
		if !outcome.Failed() {
			report.Results = append(report.Results, Result{Check: c.Name, Status: StatusPassed})
			continue
		}
		report.Violation = &Violation{Check: c.Name, Record: outcome.record, Message: outcome.message}
		report.Results = append(report.Results, Result{Check: c.Name, Status: StatusFailed, Detail: outcome.message})
	}
	return report, nil
}

// Run evaluates checks and returns the violation, if any, as an error.
func Run(pkg *record.Package, checks []Check) error {
	report, err := Evaluate(pkg, checks)
	if err != nil {
		return err
	}
	if report.Violation != nil {
		return report.Violation
	}
	return nil
}
