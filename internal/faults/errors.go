package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRequiredMissing    = errors.New("required record missing")
	ErrNamespaceExhausted = errors.New("identifier namespace exhausted")
	ErrConstruction       = errors.New("construction error")
	ErrDanglingReference  = errors.New("dangling reference")
	ErrGuardrail          = errors.New("guardrail violation")
	ErrConfiguration      = errors.New("configuration error")
	ErrEmit               = errors.New("emit error")
)

// Wrap builds an error message that includes phase context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, phase, operation, message string, err error) error {
	detail := buildDetail(phase, operation, message)
	if marker == nil {
		marker = ErrConstruction
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short label for the marker carried by err, or "error" when
// none of the known markers match.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRequiredMissing):
		return "required-missing"
	case errors.Is(err, ErrNamespaceExhausted):
		return "namespace-exhausted"
	case errors.Is(err, ErrConstruction):
		return "construction"
	case errors.Is(err, ErrDanglingReference):
		return "dangling-reference"
	case errors.Is(err, ErrGuardrail):
		return "guardrail"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrEmit):
		return "emit"
	default:
		return "error"
	}
}

// ExitCode maps an error to the process exit status. Every failure is fatal;
// configuration problems get their own code so wrappers can tell them apart.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfiguration):
		return 2
	default:
		return 1
	}
}

func buildDetail(phase, operation, message string) string {
	parts := make([]string, 0, 3)
	if phase = strings.TrimSpace(phase); phase != "" {
		parts = append(parts, phase)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "build failure"
	}
	return strings.Join(parts, ": ")
}
