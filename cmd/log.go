package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

func Logger(w io.Writer, lvl slog.Level) log.Logger {
	return log.NewLogger(log.LogfmtHandlerWithLevel(w, lvl))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// loggerFromCLI writes to the app's error writer at the --log.level level.
func loggerFromCLI(ctx *cli.Context) (log.Logger, error) {
	lvl, err := parseLevel(ctx.String(LogLevelFlag.Name))
	if err != nil {
		return nil, err
	}
	return Logger(ctx.App.ErrWriter, lvl), nil
}

// LoggingWriter exposes a logger as an io.Writer, one record per line.
type LoggingWriter struct {
	Name string
	Log  log.Logger
}

func (lw *LoggingWriter) Write(b []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(b), "\n"), "\n") {
		lw.Log.Info(lw.Name, "line", line)
	}
	return len(b), nil
}

const maxBigAttrDigits = 32

// BigAttr lazily formats a big integer for logging. Numbers with more than
// maxBigAttrDigits digits are shortened to their leading digits and size.
type BigAttr struct {
	V *big.Int
}

func (v BigAttr) String() string {
	if v.V == nil {
		return "<nil>"
	}
	s := v.V.String()
	if len(s) <= maxBigAttrDigits {
		return s
	}
	return fmt.Sprintf("%s...(%d digits)", s[:maxBigAttrDigits], len(s))
}

func (v BigAttr) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
