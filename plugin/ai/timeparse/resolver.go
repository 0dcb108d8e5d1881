package timeparse

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Resolver turns free-form text into a DateReference. It is a pure function
// of (text, today): no wall-clock reads, no hidden state, safe for
// concurrent use. It never fails; every input resolves to something, the
// worst case being today tagged "default".
type Resolver struct {
	interpreter *Interpreter
}

// NewResolver creates a resolver. The interpreter is optional; without it
// resolution is fully rule-based.
func NewResolver(interpreter *Interpreter) *Resolver {
	return &Resolver{interpreter: interpreter}
}

// Resolve applies the pattern rules in priority order. The precise numeric
// rules always run first; the AI interpreter, when configured, handles the
// residual for date-related text, and the keyword rules are the safety net
// when it is absent or fails.
func (r *Resolver) Resolve(ctx context.Context, text string, today time.Time) DateReference {
	today = dateOnly(today)

	if strings.TrimSpace(text) == "" {
		return defaultRef(today)
	}

	norm := Normalize(text)

	for _, match := range numericRules {
		if ref, ok := match(norm, today); ok {
			return ref
		}
	}

	if !containsDateKeyword(norm) {
		return defaultRef(today)
	}

	if hasInvalidWeekday(norm) {
		return defaultRef(today)
	}

	if r.interpreter != nil {
		if ref := r.interpreter.Interpret(ctx, text, today); ref != nil {
			return *ref
		}
		slog.Debug("time interpreter returned nothing, using keyword rules", "text", text)
	}

	for _, match := range keywordRules {
		if ref, ok := match(norm, today); ok {
			return ref
		}
	}

	return defaultRef(today)
}
