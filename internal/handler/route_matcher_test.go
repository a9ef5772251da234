package handler_test

import (
	"bytes"
	"expvar"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/handler"
)

func TestMuxRouteMatcher(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/process_image", okHandlerFunc).Methods("POST").Name("process_image")
	router.PathPrefix("/static/").HandlerFunc(okHandlerFunc)

	matcher := &handler.MuxRouteMatcher{Router: router}

	tests := []struct {
		Method   string
		URL      string
		Expected string
	}{
		{"POST", "/process_image", "process_image"},
		{"GET", "/static/main.js", "/static/"},
		{"GET", "/process_image", handler.UnmatchedRoute},
		{"GET", "/asdf", handler.UnmatchedRoute},
	}

	for _, test := range tests {
		if route := matcher.Match(httptest.NewRequest(test.Method, test.URL, nil)); route != test.Expected {
			t.Errorf("%s %s: wrong route %#v", test.Method, test.URL, route)
		}
	}
}

func TestMetrics(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/operators", okHandlerFunc).Methods("GET").Name("operators")

	h := handler.Metrics(router, &handler.MuxRouteMatcher{Router: router})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/operators", nil))

	if w.Code != http.StatusOK {
		t.Errorf("wrong status code %#v", w.Code)
	}

	if body := w.Body.String(); body != "ok" {
		t.Errorf("wrong body %s", body)
	}

	histogram, ok := expvar.Get("http_request_duration_seconds").(*handler.RequestHistogram)
	if !ok {
		t.Fatal("request histogram is not published")
	}

	var buf bytes.Buffer
	histogram.WritePrometheus(&buf, "http_request_duration_seconds")

	expected := `http_request_duration_seconds_count{path="operators",method="GET",code="200"} `
	if !strings.Contains(buf.String(), expected) {
		t.Errorf("missing request count in %s", buf.String())
	}
}
