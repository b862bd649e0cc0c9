package logger

import (
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. JSON output when NEWSREADER_ENV is
// "production" or stdout is not a terminal, colored development output
// otherwise. The logger is passed down explicitly; there is no package-level
// instance.
func New() *zap.Logger {
	if os.Getenv("NEWSREADER_ENV") == "production" || !isatty.IsTerminal(os.Stderr.Fd()) {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stderr"}
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		log, err := cfg.Build()
		if err != nil {
			return zap.NewNop()
		}
		return log
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// NewFile logs to the given path, for use while the TUI owns the terminal.
func NewFile(path string) *zap.Logger {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
