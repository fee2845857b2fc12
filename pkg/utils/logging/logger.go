package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where and how verbosely a process logs
type Options struct {
	// Dir receives one JSON log file per process. Empty disables file output.
	Dir string
	// Verbose lowers the console level from Info to Debug
	Verbose bool
	// Console defaults to stdout
	Console io.Writer
}

// InitLogger builds a logger with a colored console core and a JSON file core at Debug.
// env prefixes the log file name so test and production runs are easy to tell apart.
func InitLogger(env string, opts Options) (*zap.Logger, error) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleLevel := zapcore.InfoLevel
	if opts.Verbose {
		consoleLevel = zapcore.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), zapcore.AddSync(console), consoleLevel),
	}

	if opts.Dir != "" {
		logFile, err := openLogFile(opts.Dir, env)
		if err != nil {
			return nil, err
		}

		fileEncoderConfig := zap.NewProductionEncoderConfig()
		fileEncoderConfig.TimeKey = "timestamp"
		fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(logFile), zapcore.DebugLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	if env != "" {
		logger = logger.With(zap.String("env", env))
	}
	return logger, nil
}

func openLogFile(dir, env string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	prefix := env
	if prefix == "" {
		prefix = "default"
	}
	name := filepath.Join(dir, fmt.Sprintf("%s_%s.log", prefix, time.Now().Format("2006-01-02_15-04-05")))

	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
