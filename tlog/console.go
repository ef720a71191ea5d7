package tlog

import (
	"fmt"
	"sync"

	"github.com/ridge/must/v2"
	"github.com/ridge/reqlog/tlog/formatter"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// The console encoder renders every entry as JSON first and then reformats
// it, so that text logs and `reqlog-fmt` output look the same.

const consoleEncoderName = "reqlog-console"

func consoleEncoding(color bool) string {
	return fmt.Sprintf("%s;color=%t", consoleEncoderName, color)
}

func init() {
	for _, color := range []bool{false, true} {
		color := color
		must.OK(zap.RegisterEncoder(consoleEncoding(color), func(cfg zapcore.EncoderConfig) (zapcore.Encoder, error) {
			return newConsoleEncoder(cfg, color), nil
		}))
	}
}

type consoleEncoder struct {
	zapcore.Encoder // JSON encoder doing the actual encoding
	color           bool

	mu            sync.Mutex
	lastTimestamp string
}

func newConsoleEncoder(cfg zapcore.EncoderConfig, color bool) *consoleEncoder {
	return &consoleEncoder{
		Encoder: zapcore.NewJSONEncoder(cfg),
		color:   color,
	}
}

// Clone implements zapcore.Encoder
func (ce *consoleEncoder) Clone() zapcore.Encoder {
	return &consoleEncoder{
		Encoder: ce.Encoder.Clone(),
		color:   ce.color,
	}
}

// EncodeEntry implements zapcore.Encoder
func (ce *consoleEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	jsonBuf, err := ce.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer jsonBuf.Free()

	ce.mu.Lock()
	defer ce.mu.Unlock()

	out, timestamp, err := formatter.JSONLogMessage(jsonBuf.Bytes(), ce.lastTimestamp, ce.color)
	if err != nil {
		return nil, err
	}
	ce.lastTimestamp = timestamp
	return out, nil
}
