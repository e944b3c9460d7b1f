package utils

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the level of logging verbosity
type LogLevel int

const (
	// LevelQuiet suppresses all output except errors
	LevelQuiet LogLevel = iota
	// LevelNormal shows standard pipeline progress
	LevelNormal
	// LevelVerbose shows detailed information about each stage
	LevelVerbose
	// LevelDebug shows all debugging information
	LevelDebug
)

var (
	// CurrentLogLevel is the global log level setting
	CurrentLogLevel LogLevel = LevelNormal

	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	loggerMu sync.RWMutex
	logger   = newLogger(zapcore.Lock(os.Stdout), zapcore.Lock(os.Stderr))
)

// newLogger builds a console logger that sends errors to errOut and everything else to out
func newLogger(out, errOut zapcore.WriteSyncer) *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encCfg.CallerKey = zapcore.OmitKey
	encCfg.NameKey = zapcore.OmitKey
	encoder := zapcore.NewConsoleEncoder(encCfg)

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return atomicLevel.Enabled(l) && l < zapcore.ErrorLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return atomicLevel.Enabled(l) && l >= zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, out, low),
		zapcore.NewCore(encoder, errOut, high),
	)
	return zap.New(core).Sugar()
}

// SetLogOutput redirects log output, mainly for tests
func SetLogOutput(out, errOut zapcore.WriteSyncer) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = newLogger(out, errOut)
}

// SyncLogger flushes any buffered log entries
func SyncLogger() {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	_ = logger.Sync()
}

func sugar() *zap.SugaredLogger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogLevel sets the global logging level
func SetLogLevel(level LogLevel) {
	CurrentLogLevel = level
	switch level {
	case LevelQuiet:
		atomicLevel.SetLevel(zapcore.ErrorLevel)
	case LevelDebug:
		atomicLevel.SetLevel(zapcore.DebugLevel)
	default:
		atomicLevel.SetLevel(zapcore.InfoLevel)
	}
}

// LogLevelFromString converts a string level name to LogLevel
func LogLevelFromString(level string) LogLevel {
	switch strings.ToLower(level) {
	case "quiet", "q":
		return LevelQuiet
	case "normal", "n":
		return LevelNormal
	case "verbose", "v":
		return LevelVerbose
	case "debug", "d":
		return LevelDebug
	default:
		return LevelNormal
	}
}

// LogError logs an error message (always shown)
func LogError(format string, args ...interface{}) {
	sugar().Error(Error(fmt.Sprintf(format, args...)))
}

// LogInfo logs an informational message at Normal+ level
func LogInfo(format string, args ...interface{}) {
	sugar().Info(Info(fmt.Sprintf(format, args...)))
}

// LogSuccess logs a success message at Normal+ level
func LogSuccess(format string, args ...interface{}) {
	sugar().Info(Success(fmt.Sprintf(format, args...)))
}

// LogVerbose logs a message at Verbose+ level
func LogVerbose(format string, args ...interface{}) {
	if CurrentLogLevel >= LevelVerbose {
		sugar().Info("\t" + Info(fmt.Sprintf(format, args...)))
	}
}

// LogDebug logs a debug message at Debug level
func LogDebug(format string, args ...interface{}) {
	sugar().Debug("\t" + Debug(fmt.Sprintf(format, args...)))
}

// LogWarning logs a warning message at Normal+ level
func LogWarning(format string, args ...interface{}) {
	sugar().Warn(Warning(fmt.Sprintf(format, args...)))
}
