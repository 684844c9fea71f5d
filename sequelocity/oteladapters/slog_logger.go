package oteladapters

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/AntonStoeckl/sequelocity-go/sequelocity"
)

// NewSlogBridgeLogger creates a *slog.Logger that emits through the global OpenTelemetry LoggerProvider.
// It satisfies sequelocity.Logger and can be passed to sequelocity.WithLogger.
func NewSlogBridgeLogger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// Ensure *slog.Logger implements sequelocity.Logger.
var _ sequelocity.Logger = (*slog.Logger)(nil)
