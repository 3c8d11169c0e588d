// Package cli implements the shaderinc command-line interface.
//
// The commands resolve #include directives in shader sources, export the
// include graph and manage the output cache. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
//   - resolve: Flatten one document to stdout or a file
//   - check: Resolve many roots and report cycles and broken includes
//   - graph: Export the include graph (dot, svg, json, tree)
//   - gen: Embed a flattened document in generated Go source
//   - serve: Run the HTTP API
//   - cache, config: Manage the output cache and project configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes one line per resolved include.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps that filters
// messages below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command and logs its completion.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time, e.g.
// "resolved file=main.frag elapsed=12ms".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx. Commands pass the resulting logger down to
// the runner and resolver, so --verbose reaches the per-include lines.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
