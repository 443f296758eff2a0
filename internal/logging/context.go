package logging

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	buildIDKey contextKey = "build_id"
	phaseKey   contextKey = "phase"
)

// WithBuildID annotates ctx with the build correlation identifier.
func WithBuildID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, buildIDKey, id)
}

// BuildIDFromContext returns the build identifier if present.
func BuildIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(buildIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPhase annotates ctx with the pipeline phase name.
func WithPhase(ctx context.Context, phase string) context.Context {
	if phase == "" {
		return ctx
	}
	return context.WithValue(ctx, phaseKey, phase)
}

// PhaseFromContext returns the phase name if present.
func PhaseFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(phaseKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// ContextFields extracts standardized attributes from ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := BuildIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldBuildID, id))
	}
	if phase, ok := PhaseFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPhase, phase))
	}
	return fields
}

// WithContext returns logger augmented with the fields carried by ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
