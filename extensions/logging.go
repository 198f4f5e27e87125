package extensions

import (
	"context"
	"fmt"
	"log/slog"

	scopes "github.com/pumped-fn/scopes"
)

// LoggingExtension logs registry lifecycle events through slog.
//
// Usage:
//
//	// Structured JSON logging
//	ext := extensions.NewLoggingExtension(slog.NewJSONHandler(os.Stdout, nil))
//
//	// Silent (for testing)
//	ext := extensions.NewLoggingExtension(extensions.NewSilentHandler())
//
//	scopes.Default().UseExtension(ext)
//
// Registrations, evictions, opens, and closes log at DEBUG; failed lookups
// and panicking disposers log at ERROR.
type LoggingExtension struct {
	scopes.BaseExtension
	logger *slog.Logger
}

// NewLoggingExtension creates a logging extension writing to the given
// slog.Handler.
func NewLoggingExtension(handler slog.Handler) *LoggingExtension {
	return &LoggingExtension{
		BaseExtension: scopes.NewBaseExtension("logging"),
		logger:        slog.New(handler),
	}
}

func (e *LoggingExtension) OnOpen(parent, child *scopes.Scope) {
	e.logger.Debug("scope opened",
		"scope", child.Name(),
		"parent", parent.Name(),
	)
}

func (e *LoggingExtension) OnRegister(op *scopes.Operation) {
	e.logger.Debug("registered",
		"scope", op.Scope.Name(),
		"type", op.Key.String(),
		"tag", op.Tag,
	)
}

func (e *LoggingExtension) OnResolve(op *scopes.Operation, err error) {
	if err == nil {
		return
	}
	e.logger.Error("resolution failed",
		"scope", op.Scope.Name(),
		"type", op.Key.String(),
		"tag", op.Tag,
		"error", err.Error(),
	)
}

func (e *LoggingExtension) OnEvict(op *scopes.Operation) {
	e.logger.Debug("evicted",
		"scope", op.Scope.Name(),
		"type", op.Key.String(),
		"tag", op.Tag,
	)
}

func (e *LoggingExtension) OnClose(scope *scopes.Scope) {
	e.logger.Debug("scope closing",
		"scope", scope.Name(),
		"elements", scope.Size(),
	)
}

func (e *LoggingExtension) OnDisposerPanic(scope *scopes.Scope, recovered any) bool {
	e.logger.Error("disposer panicked",
		"scope", scope.Name(),
		"panic", fmt.Sprintf("%v", recovered),
	)
	return false // observe only, let later extensions see it too
}

// SilentHandler is a slog.Handler that discards all log output
// Useful for testing when you don't want log output
type SilentHandler struct{}

// NewSilentHandler creates a new silent log handler
func NewSilentHandler() *SilentHandler {
	return &SilentHandler{}
}

func (h *SilentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return false // Never enabled, discards everything
}

func (h *SilentHandler) Handle(ctx context.Context, record slog.Record) error {
	return nil // Do nothing
}

func (h *SilentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h // Return self, no state to modify
}

func (h *SilentHandler) WithGroup(name string) slog.Handler {
	return h // Return self, no state to modify
}
