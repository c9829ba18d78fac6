package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the plugin logger. Stdout is reserved for the line
// the scheduler parses, so verbose output goes to stderr and the
// optional persistent log goes to a rotated file under logDir. With
// neither enabled the logger is a no-op.
func NewLogger(verbose bool, logDir string) (*zap.Logger, error) {
	var cores []zapcore.Core

	if verbose {
		cfg := zap.NewDevelopmentEncoderConfig()
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(cfg),
			zapcore.Lock(os.Stderr),
			zap.DebugLevel,
		))
	}

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, err
		}
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(logDir, "check_scmd.log"),
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, zap.DebugLevel))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}
