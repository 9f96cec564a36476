package log

import (
	"log/slog"
	"os"

	"github.com/gainpen/gainpen/pkg/errors"
)

// SetupLogger installs the process-wide slog logger: JSON on stderr with
// source locations and stacktrace extraction for wrapped errors. An unknown
// level name is an error, not a panic, so CLI flag values can be passed
// through directly.
func SetupLogger(loglevel string) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}

	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}
	handler := slog.NewJSONHandler(os.Stderr, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))
	return nil
}

// ToLogLevel parses a level name into a slog.Level.
func ToLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errors.NewValidationError("log level",
			`must be "debug", "info", "warn" or "error"`, level)
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
