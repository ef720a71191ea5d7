package tlog

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format is the logging format
type Format string

// Format values
const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Color is the coloring setting for text format
type Color string

// Color values
const (
	ColorAuto Color = ""
	ColorYes  Color = "yes"
	ColorNo   Color = "no"
)

// Config is the configuration for creating a top-level logger
type Config struct {
	Name    string // top-level logger name (optional)
	Format  Format
	Color   Color
	Verbose bool     // enable messages at Debug level
	Outputs []string // zap output paths, stderr if empty
}

func millisTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
}

// DefaultEncoderConfig is the zap.EncoderConfig used for top-level loggers.
// Timestamps have millisecond resolution, same as request durations.
var DefaultEncoderConfig = func() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = millisTimeEncoder
	ec.EncodeDuration = zapcore.MillisDurationEncoder
	return ec
}()
