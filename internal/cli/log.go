// Package cli implements the mazeroute command-line interface.
//
// # Commands
//
//   - solve: solve maze images and write Nodes.png and Path.png
//   - graph: export the decision-point graph as DOT, SVG, PNG or JSON
//   - watch: re-solve mazes as they appear in a directory
//   - serve: run the HTTP solving service
//   - cache: inspect and clear the local cache
//   - config: show or create the config file
//
// # Logging
//
// Diagnostics go to stderr through one charmbracelet logger. The [log]
// section of the config file picks the level and the format (text, logfmt
// or json); --log-format overrides the format and --verbose forces debug,
// which together with solve --trace shows every search step. Commands
// find the logger in their context.
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mazeroute/pkg/config"
	errs "github.com/matzehuels/mazeroute/pkg/errors"
)

var logFormatters = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"logfmt": log.LogfmtFormatter,
	"json":   log.JSONFormatter,
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// configureLogger applies the [log] config section. A non-empty format
// replaces cfg.Format and verbose wins over cfg.Level.
func configureLogger(l *log.Logger, cfg config.Log, format string, verbose bool) error {
	if format == "" {
		format = cfg.Format
	}
	if format != "" {
		f, ok := logFormatters[format]
		if !ok {
			return errs.New(errs.ErrCodeInvalidConfig, "unknown log format %q (want %s)", format, logFormatNames())
		}
		l.SetFormatter(f)
	}

	switch {
	case verbose:
		l.SetLevel(log.DebugLevel)
	case cfg.Level != "":
		level, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "log level")
		}
		l.SetLevel(level)
	}
	return nil
}

func logFormatNames() string {
	names := make([]string, 0, len(logFormatters))
	for name := range logFormatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// progress times one operation.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs "msg (elapsed)" at info level, e.g. "Solved maze.png (12ms)".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(fmt.Sprintf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond)), keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext falls back to log.Default when ctx carries no logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
