package ports

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LevelDebug is for per-packet internal processing detail.
	LevelDebug LogLevel = iota
	// LevelInfo is for pipeline-level progress.
	LevelInfo
	// LevelWarn is for recoverable problems, including teardown failures
	// that are never escalated to the caller.
	LevelWarn
	// LevelError is for problems that fail the current call.
	LevelError
	// LevelQuiet suppresses all output.
	LevelQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a string into a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger abstracts logging. The msg parameter is a translatable message
// key with printf-style arguments.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that prefixes messages with the
	// component name.
	WithComponent(component string) Logger
}
