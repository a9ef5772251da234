package handler

import (
	"net/http"
	"runtime/debug"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/logger"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/tracing"
)

// Recovery is a handler for handling panics
func Recovery(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				e := InternalServerError()
				WriteJSON(w, e.Code, Response{Status: StatusError, Message: e.Message})

				ctx := r.Context()
				traceID, spanID := tracing.TraceInfo(ctx)
				log.Errorw("panic handling request",
					LogFields(r,
						"panic", err,
						"trace-id", traceID,
						"span-id", spanID,
						"stacktrace", string(debug.Stack()),
					)...,
				)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
