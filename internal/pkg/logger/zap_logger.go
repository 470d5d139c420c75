package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ILogger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
	Sync() error
}

type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(logFilePath string, isProd bool) *ZapLogger {
	rotator := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10, // Megabytes
		MaxBackups: 5,
		MaxAge:     30, // Days
		Compress:   true,
	}

	jsonEncoder := zapcore.NewJSONEncoder(fileEncoderConfig())

	fileCore := zapcore.NewCore(
		jsonEncoder,
		zapcore.AddSync(rotator),
		zap.InfoLevel,
	)

	var consoleEncoder zapcore.Encoder
	consoleLevel := zap.DebugLevel
	if isProd {
		consoleEncoder = jsonEncoder
		consoleLevel = zap.InfoLevel
	} else {
		consoleEncoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	consoleCore := zapcore.NewCore(
		consoleEncoder,
		zapcore.Lock(os.Stdout),
		consoleLevel,
	)

	core := zapcore.NewTee(fileCore, consoleCore)

	// Skip 1 so the caller field points at the code using the wrapper.
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &ZapLogger{logger: l}
}

// NewNopLogger discards everything. Used by tests and tools that have no log sink.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

// NewFromZap wraps an existing zap logger, e.g. one built with zaptest/observer.
func NewFromZap(l *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: l.WithOptions(zap.AddCallerSkip(1))}
}

func fileEncoderConfig() zapcore.EncoderConfig {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return encoderConfig
}

func (l *ZapLogger) Debug(module, message string, details map[string]interface{}) {
	l.logger.Debug(message, fields(module, details)...)
}

func (l *ZapLogger) Info(module, message string, details map[string]interface{}) {
	l.logger.Info(message, fields(module, details)...)
}

func (l *ZapLogger) Warn(module, message string, details map[string]interface{}) {
	l.logger.Warn(message, fields(module, details)...)
}

func (l *ZapLogger) Error(module, message string, details map[string]interface{}) {
	fs := fields(module, details)
	if err, ok := details["error"].(error); ok {
		fs = append(fs, zap.Error(err))
	}
	l.logger.Error(message, fs...)
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func fields(module string, details map[string]interface{}) []zap.Field {
	if details == nil {
		details = make(map[string]interface{})
	}
	return []zap.Field{zap.String("module", module), zap.Any("details", details)}
}
