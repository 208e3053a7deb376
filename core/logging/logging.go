// Package logging holds the process-wide structured logger.
package logging

import "go.uber.org/zap"

// Logger is the default logger for components that are not handed one
// explicitly. Replace it before use to redirect output.
var Logger = mustLogger()

func mustLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}
