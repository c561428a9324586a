// Package logging builds the logrus loggers used by the game and its
// frontends.
package logging

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Formatter renders one line per entry: time, coloured level, an optional
// session prefix, the message and the remaining fields sorted by key.
type Formatter struct {
	TimestampFormat string
	DisableColors   bool
}

var levelStyles = map[logrus.Level]struct {
	text  string
	color *color.Color
}{
	logrus.PanicLevel: {"PANIC", color.New(color.FgRed, color.Bold)},
	logrus.FatalLevel: {"FATAL", color.New(color.FgRed, color.Bold)},
	logrus.ErrorLevel: {"ERROR", color.New(color.FgRed, color.Bold)},
	logrus.WarnLevel:  {"WARN", color.New(color.FgYellow, color.Bold)},
	logrus.InfoLevel:  {"INFO", color.New(color.FgCyan)},
	logrus.DebugLevel: {"DEBUG", color.New(color.FgWhite, color.Faint)},
	logrus.TraceLevel: {"TRACE", color.New(color.FgWhite, color.Faint)},
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var sb strings.Builder

	style := levelStyles[entry.Level]
	level := style.text
	if !f.DisableColors && style.color != nil {
		level = style.color.Sprint(level)
	}
	fmt.Fprintf(&sb, "[%s] %s: ", entry.Time.Format(f.TimestampFormat), level)

	if session, ok := entry.Data["session"]; ok {
		prefix := fmt.Sprintf("%.8s", fmt.Sprint(session))
		if !f.DisableColors {
			prefix = color.New(color.FgBlue).Sprint(prefix)
		}
		fmt.Fprintf(&sb, "[%s] ", prefix)
	}
	sb.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != "session" {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		slices.Sort(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%v", k, entry.Data[k])
		}
		fields := " {" + strings.Join(pairs, ", ") + "}"
		if !f.DisableColors {
			fields = color.New(color.FgWhite, color.Faint).Sprint(fields)
		}
		sb.WriteString(fields)
	}

	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

// Options configure New.
type Options struct {
	Level string
	// File, when set, receives the log instead of Output. Terminal
	// frontends use it to keep the screen clean.
	File          string
	Output        io.Writer
	DisableColors bool
}

// New creates a logger. The returned closer releases the log file, if any.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	var closer io.Closer = nopCloser{}
	disableColors := opts.DisableColors

	if opts.File != "" {
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = file, file
		disableColors = true
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetOutput(out)
	log.SetFormatter(&Formatter{
		TimestampFormat: "15:04:05.000",
		DisableColors:   disableColors,
	})
	return log, closer, nil
}

// Discard returns a logger that drops every entry.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
