package tlog

import (
	"fmt"
	"testing"

	"github.com/ridge/must/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// New creates a top-level logger from config.
//
// Panics on invalid Format or Color values: these come from the command
// line and are validated there.
func New(config Config) *zap.Logger {
	encoding := "json"
	development := false
	switch config.Format {
	case FormatJSON:
	case FormatText:
		development = true
		encoding = consoleEncoding(useColor(config.Color))
	default:
		panic(fmt.Errorf("unexpected --log-format value: %s", config.Format))
	}

	level := zapcore.InfoLevel
	if config.Verbose {
		level = zapcore.DebugLevel
	}

	outputs := config.Outputs
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	logger := must.OK1(zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      development,
		Encoding:         encoding,
		EncoderConfig:    DefaultEncoderConfig,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}.Build())

	if config.Name != "" {
		logger = logger.Named(config.Name)
	}
	return logger
}

func useColor(color Color) bool {
	switch color {
	case ColorYes:
		return true
	case ColorNo:
		return false
	case ColorAuto:
		return term.IsTerminal(unix.Stderr)
	default:
		panic(fmt.Errorf("unexpected --log-color value: %s", color))
	}
}

// NewForTesting creates a verbose text logger for use in unit tests
func NewForTesting(t *testing.T) *zap.Logger {
	return New(Config{
		Name:    t.Name(),
		Format:  FormatText,
		Color:   ColorAuto,
		Verbose: true,
	})
}
