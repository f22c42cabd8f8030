package sqlport

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
)

// LogLevel indicates the severity of a logged event.
type LogLevel int8

// Log levels, from finest to coarsest.
const (
	LogLevelTrace LogLevel = iota - 1
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
	LogLevelPanic
)

const defaultLogLevel = LogLevelWarn

var logLevelNames = map[LogLevel]string{
	LogLevelTrace: "trace",
	LogLevelDebug: "debug",
	LogLevelInfo:  "info",
	LogLevelWarn:  "warning",
	LogLevelError: "error",
	LogLevelFatal: "fatal",
	LogLevelPanic: "panic",
}

func (level LogLevel) String() string {
	return logLevelNames[level]
}

// EnvEnableDebug is the environment variable that switches the logging
// collector to debug level at startup, making every executed statement show
// up on the standard logger.
//
// Example:
//
//	SQLPORT_DEBUG=1 ./go-program
const EnvEnableDebug = `SQLPORT_DEBUG`

func init() {
	if envEnabled(EnvEnableDebug) {
		LC().SetLevel(LogLevelDebug)
	}
}

// Logger represents a leveled logging backend. *logrus.Logger satisfies it,
// so an application logger can be plugged straight into the collector:
//
//	sqlport.LC().SetLogger(logrus.New())
type Logger interface {
	Trace(v ...interface{})
	Tracef(format string, v ...interface{})

	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warn(v ...interface{})
	Warnf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})

	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})

	Panic(v ...interface{})
	Panicf(format string, v ...interface{})
}

// LoggingCollector filters and forwards log events. Use LC to reach the
// package-wide collector.
type LoggingCollector interface {
	// Enabled reports whether events of the given level are forwarded.
	Enabled(LogLevel) bool

	// Level returns the current logging level.
	Level() LogLevel
	// SetLevel changes the logging level.
	SetLevel(LogLevel)

	// Logger returns the backend events are forwarded to.
	Logger() Logger
	// SetLogger changes the backend. Passing nil restores the standard
	// library logger.
	SetLogger(Logger)
}

type loggerHolder struct {
	logger Logger
}

type loggingCollector struct {
	level  int32
	holder atomic.Value
}

func (c *loggingCollector) Enabled(level LogLevel) bool {
	return level >= c.Level()
}

func (c *loggingCollector) Level() LogLevel {
	return LogLevel(atomic.LoadInt32(&c.level))
}

func (c *loggingCollector) SetLevel(level LogLevel) {
	atomic.StoreInt32(&c.level, int32(level))
}

func (c *loggingCollector) Logger() Logger {
	if h, ok := c.holder.Load().(loggerHolder); ok && h.logger != nil {
		return h.logger
	}
	return stdLogger
}

func (c *loggingCollector) SetLogger(logger Logger) {
	c.holder.Store(loggerHolder{logger: logger})
}

var defaultLoggingCollector LoggingCollector = &loggingCollector{
	level: int32(defaultLogLevel),
}

// LC returns the package-wide logging collector.
func LC() LoggingCollector {
	return defaultLoggingCollector
}

// QueryStatus reports the execution of a single statement.
type QueryStatus struct {
	SessID uint64
	TxID   uint64

	Query string
	Err   error

	Start time.Time
	End   time.Time
}

var reInvisibleChars = regexp.MustCompile(`[\s\r\n\t]+`)

func (m *QueryStatus) String() string {
	s := make([]string, 0, 4)

	if query := m.Query; query != "" {
		query = reInvisibleChars.ReplaceAllString(query, ` `)
		query = strings.TrimSpace(query)
		s = append(s, fmt.Sprintf(`Q: %s`, query))
	}

	if m.TxID > 0 {
		s = append(s, fmt.Sprintf(`TX: %d`, m.TxID))
	}

	if m.Err != nil {
		s = append(s, fmt.Sprintf(`E: %q`, m.Err))
	}

	s = append(s, fmt.Sprintf(`T: %0.5fs`, float64(m.End.UnixNano()-m.Start.UnixNano())/float64(1e9)))

	return strings.Join(s, "\n\t")
}

// Log forwards a query status report to the collector: failed statements are
// reported at error level, successful ones at debug level.
func Log(m *QueryStatus) {
	lc := LC()
	if m.Err != nil {
		if lc.Enabled(LogLevelError) {
			lc.Logger().Error(m)
		}
		return
	}
	if lc.Enabled(LogLevelDebug) {
		lc.Logger().Debug(m)
	}
}

var stdLogger Logger = &defaultLogger{}

// defaultLogger writes through the standard library logger.
type defaultLogger struct{}

func (*defaultLogger) Trace(v ...interface{})                 { log.Print(v...) }
func (*defaultLogger) Tracef(format string, v ...interface{}) { log.Printf(format, v...) }

func (*defaultLogger) Debug(v ...interface{})                 { log.Print(v...) }
func (*defaultLogger) Debugf(format string, v ...interface{}) { log.Printf(format, v...) }

func (*defaultLogger) Info(v ...interface{})                 { log.Print(v...) }
func (*defaultLogger) Infof(format string, v ...interface{}) { log.Printf(format, v...) }

func (*defaultLogger) Warn(v ...interface{})                 { log.Print(v...) }
func (*defaultLogger) Warnf(format string, v ...interface{}) { log.Printf(format, v...) }

func (*defaultLogger) Error(v ...interface{})                 { log.Print(v...) }
func (*defaultLogger) Errorf(format string, v ...interface{}) { log.Printf(format, v...) }

func (*defaultLogger) Fatal(v ...interface{})                 { log.Fatal(v...) }
func (*defaultLogger) Fatalf(format string, v ...interface{}) { log.Fatalf(format, v...) }

func (*defaultLogger) Panic(v ...interface{})                 { log.Panic(v...) }
func (*defaultLogger) Panicf(format string, v ...interface{}) { log.Panicf(format, v...) }
