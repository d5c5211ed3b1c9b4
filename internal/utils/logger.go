// Package utils contains general helpers shared across the d2p tool.
package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal application errors.
	ApplicationExecutionFailedMessage = "application execution failed"
)

// NewApplicationLogger constructs a zap logger configured for plain,
// human-readable console output without timestamps or level prefixes.
func NewApplicationLogger() (*zap.Logger, error) {
	loggerConfiguration := zap.NewProductionConfig()
	loggerConfiguration.Encoding = "console"
	loggerConfiguration.DisableCaller = true
	loggerConfiguration.DisableStacktrace = true
	loggerConfiguration.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	loggerConfiguration.EncoderConfig.TimeKey = ""
	loggerConfiguration.EncoderConfig.LevelKey = ""
	loggerConfiguration.EncoderConfig.NameKey = ""
	loggerConfiguration.EncoderConfig.CallerKey = ""
	loggerConfiguration.EncoderConfig.MessageKey = "message"
	loggerConfiguration.EncoderConfig.StacktraceKey = ""
	return loggerConfiguration.Build()
}
