package logger

import (
	"os"

	"github.com/cliptube/backend/internal/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger
)

// InitLogger initializes the Zap logger for the given environment
func InitLogger(environment string) error {
	var zapLevel zapcore.Level
	switch environment {
	case constants.EnvProduction:
		zapLevel = zapcore.InfoLevel
	default:
		zapLevel = zapcore.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zapLevel,
	)

	Logger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	Sugar = Logger.Sugar()

	return nil
}

// GetLogger returns the structured logger
func GetLogger() *zap.Logger {
	if Logger == nil {
		Logger = zap.NewNop()
		Sugar = Logger.Sugar()
	}
	return Logger
}

// GetSugarLogger returns the sugared logger
func GetSugarLogger() *zap.SugaredLogger {
	GetLogger()
	return Sugar
}

// Sync syncs all logs (call this before application exits)
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// LogRequest logs HTTP request information
func LogRequest(method, path string, statusCode int, duration int64, clientIP string, userAgent string) {
	GetLogger().Info("HTTP Request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", statusCode),
		zap.Int64("duration_ms", duration),
		zap.String("client_ip", clientIP),
		zap.String("user_agent", userAgent),
	)
}

// LogPanic logs panic and recovers
func LogPanic(recovered interface{}) {
	GetLogger().Error("Panic recovered",
		zap.Any("panic", recovered),
		zap.Stack("stack"),
	)
}

// LogAuth logs authentication events
func LogAuth(userID, action string, success bool, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("user_id", userID),
		zap.String("action", action),
		zap.Bool("success", success),
	}, fields...)

	if success {
		GetLogger().Info("Authentication success", allFields...)
	} else {
		GetLogger().Warn("Authentication failure", allFields...)
	}
}
