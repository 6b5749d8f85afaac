package goja

import "log/slog"

// slogPrinter routes script console output to structured logs. Scripts
// talk to callers through the print capability; console output is
// treated as engine diagnostics.
type slogPrinter struct {
	logger *slog.Logger
}

func (p *slogPrinter) Log(msg string) {
	p.logger.Debug("script console", "level", "log", "message", msg)
}

func (p *slogPrinter) Warn(msg string) {
	p.logger.Warn("script console", "level", "warn", "message", msg)
}

func (p *slogPrinter) Error(msg string) {
	p.logger.Error("script console", "level", "error", "message", msg)
}
