package logger

import (
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the production JSON logger. Timestamps are written under "ts"
// in the application time zone so they line up with document dates.
func New(level string, loc *time.Location) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig = encoderConfig(loc)

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// NewWithWriter returns a debug-level JSON logger writing to w.
func NewWithWriter(w io.Writer, loc *time.Location) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig(loc)),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

func encoderConfig(loc *time.Location) zapcore.EncoderConfig {
	if loc == nil {
		loc = time.UTC
	}
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.MessageKey = "msg"
	enc.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(t.In(loc).Format(time.RFC3339Nano))
	}
	return enc
}
