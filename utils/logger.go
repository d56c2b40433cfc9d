package utils

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const loggerContextKey contextKey = "logger"

// NewLogger builds the process logger. Development gets a console writer at
// debug level; everything else gets JSON at info.
func NewLogger(appEnv string) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return logger
}

// SetLogger attaches a request scoped logger to c.
func SetLogger(c *gin.Context, l zerolog.Logger) {
	c.Set(string(loggerContextKey), l)
}

// Logger returns the request scoped logger, or a disabled one when the
// request id middleware did not run.
func Logger(c *gin.Context) zerolog.Logger {
	if v, ok := c.Get(string(loggerContextKey)); ok {
		if l, ok := v.(zerolog.Logger); ok {
			return l
		}
	}
	return zerolog.Nop()
}
