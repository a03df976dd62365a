package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// respondWithError writes userMsg to the client and logs err with the internal detail.
// Server faults log at error level, client faults at warn.
func respondWithError(w http.ResponseWriter, logger *zap.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		level := zapcore.WarnLevel
		if status >= http.StatusInternalServerError {
			level = zapcore.ErrorLevel
		}
		logger.Log(level, logMsg, zap.Int("status", status), zap.Error(err))
	}

	http.Error(w, userMsg, status)
}
