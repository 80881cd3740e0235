// Package logging builds the engine's structured logger.
// Services receive a *zap.Logger by constructor injection so tests can
// substitute zap.NewNop().
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a production logger writing JSON to the rotated file at path
// and human-readable output to stderr. An empty path logs to stderr only.
func New(path string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleEnc := zapcore.NewConsoleEncoder(encCfg)
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stderr), zapcore.InfoLevel),
	}

	if path != "" {
		rotated := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    20, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		fileEnc := zapcore.NewJSONEncoder(encCfg)
		cores = append(cores, zapcore.NewCore(fileEnc, zapcore.AddSync(rotated), zapcore.InfoLevel))
	}

	return zap.New(zapcore.NewTee(cores...))
}
