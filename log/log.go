//  Copyright (c) 2014 Couchbase, Inc.

// Package log is the logging layer for rdms components. Applications
// can plug in their own Logger using SetLogger, otherwise log lines
// are rendered by a log/slog handler.
package log

import "context"
import "fmt"
import "io"
import "log/slog"
import "os"
import "strings"
import "sync/atomic"

func init() {
	setts := map[string]interface{}{
		"log.level":  "info",
		"log.file":   "",
		"log.format": "text",
	}
	SetLogger(nil, setts)
}

// Logger interface for rdms logging, applications can supply a logger
// object implementing this interface or rdms will fall back to the
// slog based default logger.
type Logger interface {
	SetLogLevel(string)
	Fatalf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Verbosef(format string, v ...interface{})
	Debugf(format string, v ...interface{})
	Tracef(format string, v ...interface{})
	Printlf(loglevel LogLevel, format string, v ...interface{})
}

// LogLevel defines rdms log level.
type LogLevel int

const (
	logLevelIgnore LogLevel = iota + 1
	logLevelFatal
	logLevelError
	logLevelWarn
	logLevelInfo
	logLevelVerbose
	logLevelDebug
	logLevelTrace
)

var log atomic.Value // Logger

// SetLogger to integrate rdms logging with application logging.
// Importing this package will initialize the logger with info level
// logging to console. Settings:
//
// "log.level" (string, default: "info"),
//	One of ignore, fatal, error, warn, info, verbose, debug, trace.
//
// "log.file" (string, default: ""),
//	Log file, default is os.Stdout.
//
// "log.format" (string, default: "text"),
//	Either text or json.
func SetLogger(logger Logger, setts map[string]interface{}) Logger {
	if logger == nil {
		logger = settingsLogger(setts)
	}
	log.Store(&holder{logger})
	return logger
}

func settingsLogger(setts map[string]interface{}) *defaultLogger {
	level, _ := setts["log.level"].(string)
	if level == "" {
		level = "info"
	}
	format, _ := setts["log.format"].(string)
	var w io.Writer = os.Stdout
	if logfile, _ := setts["log.file"].(string); logfile != "" {
		fd, err := os.OpenFile(logfile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0660)
		if err != nil {
			panic(fmt.Errorf("log.file %q: %w", logfile, err))
		}
		w = fd
	}
	return newDefaultLogger(string2logLevel(level), w, format)
}

type holder struct{ Logger }

func getlog() Logger {
	return log.Load().(*holder).Logger
}

// levels maps every LogLevel to its setting name, its five letter
// tag and the slog level it is rendered at. slog lacks verbose, trace
// and fatal, they sit between and around slog's own levels.
var levels = [...]struct {
	name string
	tag  string
	slog slog.Level
}{
	logLevelIgnore:  {"ignore", "Ignor", slog.Level(16)},
	logLevelFatal:   {"fatal", "Fatal", slog.Level(12)},
	logLevelError:   {"error", "Error", slog.LevelError},
	logLevelWarn:    {"warn", "Warng", slog.LevelWarn},
	logLevelInfo:    {"info", "Infom", slog.LevelInfo},
	logLevelVerbose: {"verbose", "Verbs", slog.Level(-2)},
	logLevelDebug:   {"debug", "Debug", slog.LevelDebug},
	logLevelTrace:   {"trace", "Trace", slog.Level(-8)},
}

func (l LogLevel) String() string {
	if l < logLevelIgnore || l > logLevelTrace {
		panic(fmt.Errorf("unexpected log level %d", int(l)))
	}
	return levels[l].tag
}

func (l LogLevel) slog() slog.Level {
	return levels[l].slog
}

// slog2logLevel return the most severe LogLevel rendered at or below
// level.
func slog2logLevel(level slog.Level) LogLevel {
	for l := logLevelFatal; l < logLevelTrace; l++ {
		if level >= levels[l].slog {
			return l
		}
	}
	return logLevelTrace
}

func string2logLevel(s string) LogLevel {
	s = strings.ToLower(s)
	for l := logLevelIgnore; l <= logLevelTrace; l++ {
		if levels[l].name == s {
			return l
		}
	}
	panic(fmt.Errorf("unexpected log level %q", s))
}

// defaultLogger render log lines through slog, filtering them by the
// configured level before formatting.
type defaultLogger struct {
	level  atomic.Int64 // LogLevel
	logger *slog.Logger
}

func newDefaultLogger(level LogLevel, w io.Writer, format string) *defaultLogger {
	opts := &slog.HandlerOptions{
		Level: levels[logLevelTrace].slog,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey || len(groups) > 0 {
				return a
			}
			if lvl, ok := a.Value.Any().(slog.Level); ok {
				a.Value = slog.StringValue(slog2logLevel(lvl).String())
			}
			return a
		},
	}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		panic(fmt.Errorf("unexpected log format %q", format))
	}
	l := &defaultLogger{logger: slog.New(handler)}
	l.level.Store(int64(level))
	return l
}

func (l *defaultLogger) SetLogLevel(level string) {
	l.level.Store(int64(string2logLevel(level)))
}

func (l *defaultLogger) Printlf(level LogLevel, format string, v ...interface{}) {
	if level > LogLevel(l.level.Load()) {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, v...), "\n")
	l.logger.Log(context.Background(), level.slog(), msg)
}

func (l *defaultLogger) Fatalf(f string, v ...interface{})   { l.Printlf(logLevelFatal, f, v...) }
func (l *defaultLogger) Errorf(f string, v ...interface{})   { l.Printlf(logLevelError, f, v...) }
func (l *defaultLogger) Warnf(f string, v ...interface{})    { l.Printlf(logLevelWarn, f, v...) }
func (l *defaultLogger) Infof(f string, v ...interface{})    { l.Printlf(logLevelInfo, f, v...) }
func (l *defaultLogger) Verbosef(f string, v ...interface{}) { l.Printlf(logLevelVerbose, f, v...) }
func (l *defaultLogger) Debugf(f string, v ...interface{})   { l.Printlf(logLevelDebug, f, v...) }
func (l *defaultLogger) Tracef(f string, v ...interface{})   { l.Printlf(logLevelTrace, f, v...) }

// Fatalf log the message and panic.
func Fatalf(format string, v ...interface{}) {
	getlog().Printlf(logLevelFatal, format, v...)
	panic(fmt.Errorf(format, v...))
}

func Errorf(f string, v ...interface{})   { getlog().Printlf(logLevelError, f, v...) }
func Warnf(f string, v ...interface{})    { getlog().Printlf(logLevelWarn, f, v...) }
func Infof(f string, v ...interface{})    { getlog().Printlf(logLevelInfo, f, v...) }
func Verbosef(f string, v ...interface{}) { getlog().Printlf(logLevelVerbose, f, v...) }
func Debugf(f string, v ...interface{})   { getlog().Printlf(logLevelDebug, f, v...) }
func Tracef(f string, v ...interface{})   { getlog().Printlf(logLevelTrace, f, v...) }
