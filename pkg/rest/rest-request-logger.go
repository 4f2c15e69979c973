package rest

import (
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
)

// RequestLogger tags every request with a unique ID and logs its outcome through the engine's base logger.
func (e *Engine) RequestLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, request *http.Request) {

			reqUUID, err := uuid.NewV4()
			if err != nil {
				e.baseLogger.WithError(err).Error("can't generate a request UUID")
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			// a request-specific logger
			var logger = e.baseLogger.WithFields(logrus.Fields{
				"reqid":     reqUUID.String(),
				"remote-ip": request.RemoteAddr,
			})

			var start = time.Now()
			next.ServeHTTP(w, request)

			logger.WithFields(logrus.Fields{
				"method":  request.Method,
				"path":    request.URL.Path,
				"elapsed": time.Since(start).String(),
			}).Debug("request served")
		})
	}
}

// MustGetNewUUID returns a string encoded unique identifier and panics on failure;
// exhausted entropy sources make for a legitimately unrecoverable state.
func MustGetNewUUID() string {
	id, err := uuid.NewV4()
	if err != nil {
		panic(err)
	}
	return id.String()
}
