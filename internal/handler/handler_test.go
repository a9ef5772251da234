package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/handler"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		Name                string
		ExpectedContentType string
		ExpectedStatus      int
		ExpectedResponse    []byte
		Handler             handler.Handler
	}{
		{"internal server error", "application/json", http.StatusInternalServerError, []byte("{\"status\":\"error\",\"message\":\"Something went wrong\"}\n"), errorHandler},
		{"bad request", "application/json", http.StatusBadRequest, []byte("{\"status\":\"error\",\"message\":\"Bad request test\"}\n"), badRequestHandler},
		{"not found", "application/json", http.StatusNotFound, []byte("{\"status\":\"error\",\"message\":\"page not found\"}\n"), notFoundHandler},
		{"success", "text/plain", http.StatusOK, []byte("ok"), okHandler},
	}

	for _, test := range tests {
		ts := httptest.NewServer(handler.Handler(test.Handler))
		defer ts.Close()

		res, err := http.Get(ts.URL)
		if err != nil {
			t.Errorf("%s: %s", test.Name, err)
			continue
		}

		defer res.Body.Close()

		if res.StatusCode != test.ExpectedStatus {
			t.Errorf("%s: wrong response code, %#v", test.Name, res.StatusCode)
			continue
		}

		contentType := res.Header.Get("Content-Type")
		if contentType != test.ExpectedContentType {
			t.Errorf("%s: wrong content type, %#v", test.Name, contentType)
			continue
		}

		body, err := io.ReadAll(res.Body)
		if err != nil {
			t.Errorf("%s: %s", test.Name, err)
			continue
		}

		if !reflect.DeepEqual(body, test.ExpectedResponse) {
			t.Errorf("%s: wrong response %s", test.Name, body)
		}
	}
}

func TestAddRequestID(t *testing.T) {
	var seen string
	h := handler.AddRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = handler.GetReqID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if seen == "" {
		t.Fatal("no request id")
	}

	if header := w.Header().Get(handler.RequestIDHeader); header != seen {
		t.Errorf("wrong request id header %s", header)
	}

	// An incoming id is kept
	incoming := "0b4c7bb6-3c1b-4bfa-9d0e-8f6d9b0d5a11"
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(handler.RequestIDHeader, incoming)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != incoming {
		t.Errorf("incoming id was replaced with %s", seen)
	}

	// Garbage is replaced
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(handler.RequestIDHeader, "not an id")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "not an id" || seen == "" {
		t.Errorf("invalid id was kept: %s", seen)
	}
}

func TestCORS(t *testing.T) {
	h := handler.CORS([]string{"GET", "POST"}, []string{handler.RequestIDHeader}, http.HandlerFunc(okHandlerFunc))

	tests := []struct {
		Name            string
		Method          string
		ExpectedStatus  int
		Headers         map[string]string
		ExpectedHeaders map[string]string
	}{
		{
			Name:           "sets correct headers for non-option requests",
			Method:         "POST",
			ExpectedStatus: http.StatusOK,
			Headers: map[string]string{
				"Origin": "http://www.example.com",
			},
			ExpectedHeaders: map[string]string{
				"Access-Control-Allow-Origin":   "*",
				"Access-Control-Expose-Headers": handler.RequestIDHeader,
			},
		},
		{
			Name:           "responds correctly to preflight request",
			Method:         "OPTIONS",
			Headers: map[string]string{
				"Origin":                         "http://www.example.com",
				"Access-Control-Request-Method":  "POST",
				"Access-Control-Request-Headers": "Content-Type",
			},
			ExpectedHeaders: map[string]string{
				"Access-Control-Allow-Origin":  "*",
				"Access-Control-Allow-Methods": "POST",
			},
		},
		{
			Name:           "ignores disallowed preflight methods",
			Method:         "OPTIONS",
			Headers: map[string]string{
				"Origin":                        "http://www.example.com",
				"Access-Control-Request-Method": "DELETE",
			},
			ExpectedHeaders: map[string]string{
				"Access-Control-Allow-Origin":  "",
				"Access-Control-Allow-Methods": "",
			},
		},
	}

	for _, test := range tests {
		req := httptest.NewRequest(test.Method, "/", nil)
		for k, v := range test.Headers {
			req.Header.Set(k, v)
		}

		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if test.ExpectedStatus != 0 && w.Code != test.ExpectedStatus {
			t.Errorf("%s: wrong response code, %#v", test.Name, w.Code)
			continue
		}

		for k, v := range test.ExpectedHeaders {
			if header := w.Header().Get(k); header != v {
				t.Errorf("%s: wrong value for header %s: %#v", test.Name, k, header)
			}
		}
	}
}

func errorHandler(rw http.ResponseWriter, req *http.Request) *handler.Error {
	return handler.InternalServerError()
}

func badRequestHandler(rw http.ResponseWriter, req *http.Request) *handler.Error {
	return handler.BadRequest("Bad request test")
}

func notFoundHandler(rw http.ResponseWriter, req *http.Request) *handler.Error {
	return handler.NotFound()
}

func okHandler(rw http.ResponseWriter, req *http.Request) *handler.Error {
	okHandlerFunc(rw, req)
	return nil
}

func okHandlerFunc(rw http.ResponseWriter, req *http.Request) {
	rw.Header().Set("Content-Type", "text/plain")
	rw.Write([]byte("ok"))
}
