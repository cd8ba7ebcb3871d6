// Package logging builds the application's zap logger.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the level and destination of the logger.
type Options struct {
	Level string
	// File receives JSON log lines. When empty, Stderr decides between stderr
	// and discarding everything.
	File   string
	Stderr bool
}

// New returns a JSON logger and a cleanup func that syncs and closes the
// destination.
func New(opts Options) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var ws zapcore.WriteSyncer
	closeFn := func() {}
	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		ws = zapcore.AddSync(f)
		closeFn = func() { _ = f.Close() }
	case opts.Stderr:
		ws = zapcore.Lock(os.Stderr)
	default:
		return zap.NewNop(), func() {}, nil
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, level)
	logger := zap.New(core).Named("batchwatch")
	return logger, func() {
		_ = logger.Sync()
		closeFn()
	}, nil
}
