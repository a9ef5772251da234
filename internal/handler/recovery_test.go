package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/handler"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/logger"
	"go.uber.org/zap"
)

func TestRecovery(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	h := handler.AddRequestID(handler.Recovery(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("panicking handler")
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/process_image", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("wrong status code %#v", w.Code)
	}

	if contentType := w.Header().Get("Content-Type"); contentType != "application/json" {
		t.Errorf("wrong content type %#v", contentType)
	}

	if body := w.Body.String(); body != "{\"status\":\"error\",\"message\":\"Something went wrong\"}\n" {
		t.Errorf("wrong body %s", body)
	}
}

func TestRecoveryAbortHandler(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	h := handler.Recovery(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if err := recover(); err != http.ErrAbortHandler {
			t.Errorf("wrong panic %v", err)
		}
	}()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	t.Error("ErrAbortHandler was swallowed")
}
