package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent names the package or subsystem emitting the record.
	FieldComponent = "component"
	// FieldRunID identifies one invocation of the packer.
	FieldRunID = "run_id"
	// FieldPartition is the zero-based partition index.
	FieldPartition = "part"
	// FieldImageID is the list id of the image being processed.
	FieldImageID = "image_id"
	// FieldPath is the list-relative image path.
	FieldPath = "path"
	// FieldEventType classifies warnings for filtering.
	FieldEventType = "event_type"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldError carries the error value.
	FieldError = "error"
)

type contextKey int

const (
	runIDKey contextKey = iota
	partitionKey
)

// WithRunID stores the run id on ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run id stored on ctx.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithPartition stores the partition index on ctx.
func WithPartition(ctx context.Context, part int) context.Context {
	return context.WithValue(ctx, partitionKey, part)
}

// PartitionFromContext returns the partition index stored on ctx.
func PartitionFromContext(ctx context.Context) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	part, ok := ctx.Value(partitionKey).(int)
	return part, ok
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if part, ok := PartitionFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldPartition, part))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
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
