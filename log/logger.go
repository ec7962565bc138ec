package log

import (
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	leveledBackend logging.LeveledBackend
	activeLevel    = Notice
)

// The logger interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// Create a new named logger.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// Override the backend output sink. The currently active level is preserved.
func SetSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	backendWithFormatter := logging.NewBackendFormatter(backend, format)
	leveledBackend = logging.AddModuleLevel(backendWithFormatter)
	logging.SetBackend(leveledBackend)
	SetLevel(activeLevel)
}

// Set logger verbosity for all modules.
func SetLevel(level Level) {
	activeLevel = level
	leveledBackend.SetLevel(toBackendLevel(level), "")
}

// Set logger verbosity for a single named module.
func SetModuleLevel(module string, level Level) {
	leveledBackend.SetLevel(toBackendLevel(level), module)
}

// Parse a level name (debug, info, notice, warning, error).
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "notice", "":
		return Notice, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	}
	return Notice, errors.Errorf("log: unknown level %q", name)
}

func toBackendLevel(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	}
	return logging.NOTICE
}

func init() {
	SetSink(os.Stderr)
}
