package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Settings stores config for Logger
type Settings struct {
	Path       string `yaml:"path"`
	Name       string `yaml:"name"`
	Ext        string `yaml:"ext"`
	TimeFormat string `yaml:"time-format"`
}

type LogLevel int

// Output levels
const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	FATAL
)

const (
	flags              = log.LstdFlags
	defaultCallerDepth = 2
)

var (
	levelFlags = []string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}
)

// ILogger defines the methods that any logger should implement
type ILogger interface {
	Output(level LogLevel, callerDepth int, msg string)
}

// Logger writes leveled messages prefixed with the caller position.
// Writes are synchronous: the cli exits right after decoding and must not lose queued entries.
type Logger struct {
	mu      sync.Mutex
	logFile *os.File
	logger  *log.Logger
	level   LogLevel
}

var DefaultLogger ILogger = NewStdoutLogger()

// NewLogger creates a logger which print msg to w
func NewLogger(w io.Writer) *Logger {
	return &Logger{
		logger: log.New(w, "", flags),
		level:  DEBUG,
	}
}

// NewStdoutLogger creates a logger which print msg to stderr, keeping stdout for decoded values
func NewStdoutLogger() *Logger {
	return NewLogger(os.Stderr)
}

// NewFileLogger creates a logger which print msg to stderr and log file
func NewFileLogger(settings *Settings) (*Logger, error) {
	fileName := fmt.Sprintf("%s-%s.%s",
		settings.Name,
		time.Now().Format(settings.TimeFormat),
		strings.TrimPrefix(settings.Ext, "."))
	logFile, err := mustOpen(fileName, settings.Path)
	if err != nil {
		return nil, fmt.Errorf("logging.Join err: %s", err)
	}
	logger := NewLogger(io.MultiWriter(os.Stderr, logFile))
	logger.logFile = logFile
	return logger, nil
}

func mustOpen(fileName, dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, fileName), os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
}

// Setup initializes DefaultLogger
func Setup(settings *Settings) error {
	logger, err := NewFileLogger(settings)
	if err != nil {
		return err
	}
	DefaultLogger = logger
	return nil
}

// ParseLevel converts a redis.conf loglevel name into LogLevel
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(name) {
	case "debug", "verbose":
		return DEBUG, nil
	case "info", "notice", "":
		return INFO, nil
	case "warn", "warning":
		return WARNING, nil
	case "error":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", name)
}

// SetLevel drops messages below level
func (logger *Logger) SetLevel(level LogLevel) {
	logger.mu.Lock()
	logger.level = level
	logger.mu.Unlock()
}

// Close releases the log file if any
func (logger *Logger) Close() error {
	if logger.logFile == nil {
		return nil
	}
	return logger.logFile.Close()
}

// Output writes msg if level is enabled
func (logger *Logger) Output(level LogLevel, callerDepth int, msg string) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	if level < logger.level {
		return
	}
	var formattedMsg string
	_, file, line, ok := runtime.Caller(callerDepth)
	if ok {
		formattedMsg = fmt.Sprintf("[%s][%s:%d] %s", levelFlags[level], filepath.Base(file), line, msg)
	} else {
		formattedMsg = fmt.Sprintf("[%s] %s", levelFlags[level], msg)
	}
	_ = logger.logger.Output(0, formattedMsg)
}

// Debug logs debug message through DefaultLogger
func Debug(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.Output(DEBUG, defaultCallerDepth, msg)
}

// Debugf logs debug message through DefaultLogger
func Debugf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	DefaultLogger.Output(DEBUG, defaultCallerDepth, msg)
}

// Info logs message through DefaultLogger
func Info(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.Output(INFO, defaultCallerDepth, msg)
}

// Infof logs message through DefaultLogger
func Infof(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	DefaultLogger.Output(INFO, defaultCallerDepth, msg)
}

// Warn logs warning message through DefaultLogger
func Warn(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.Output(WARNING, defaultCallerDepth, msg)
}

// Error logs error message through DefaultLogger
func Error(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.Output(ERROR, defaultCallerDepth, msg)
}

// Errorf logs error message through DefaultLogger
func Errorf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	DefaultLogger.Output(ERROR, defaultCallerDepth, msg)
}

// Fatal prints error message then stop the program
func Fatal(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.Output(FATAL, defaultCallerDepth, msg)
	os.Exit(1)
}
