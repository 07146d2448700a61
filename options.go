package gairdrop

import (
	"log/slog"
)

type ProgramOptionFunc func(*Program)

// WithLogger specifies a custom logger for tracing validation and
// invocation steps
func WithLogger(logger *slog.Logger) ProgramOptionFunc {
	return func(p *Program) {
		if logger != nil {
			p.logger = logger
		}
	}
}
