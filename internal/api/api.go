package api

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/handler"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/health"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/image"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/logger"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/storage"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/tracing"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/web"
)

// API is a http api
type API struct {
	ImageProcessor image.Processor
	Storage        storage.Provider
	HealthChecker  *health.Checker
	Log            *logger.Logger
	Tracer         *tracing.Tracer
	HandlerTimeout time.Duration
	// MaxUploadSize is the largest accepted image in bytes, 0 disables the limit
	MaxUploadSize int64
}

// Utility methods for logging
func (a *API) logError(r *http.Request, message string, err error) {
	a.Log.Errorw(message, handler.LogFields(r, "error", err)...)
}

func (a *API) logInfo(r *http.Request, message string, err error) {
	a.Log.Infow(message, handler.LogFields(r, "error", err)...)
}

// Router returns a http router
func (a *API) Router() http.Handler {
	router := mux.NewRouter()

	router.NotFoundHandler = handler.Handler(a.notFoundHandler)

	// Redirect trailing slashes
	router.StrictSlash(true)

	// Healthcheck
	router.Handle("/health", handler.Health(a.HealthChecker)).Methods("GET").Name("health")

	// Operators and their default parameters
	router.Handle("/operators", handler.Handler(a.operatorsHandler)).Methods("GET").Name("operators")

	// Form fields:
	// operation - Name of the operator
	// c_value, thickness, gamma, kernel_size - Operator parameters, defaults are used when empty
	// image - The image file
	router.Handle("/process_image", handler.Handler(a.processImageHandler)).Methods("POST").Name("process_image")

	// Static files
	assets := web.Assets()
	router.HandleFunc("/", serveFile(assets, "index.html")).Methods("GET").Name("index")
	router.PathPrefix("/static/").HandlerFunc(fileHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(assets))).ServeHTTP)).Methods("GET").Name("static")

	routeMatcher := &handler.MuxRouteMatcher{Router: router}

	// Set up handlers for adding a request id, handling panics, request logging, tracing, metrics, setting CORS headers, and handler execution timeout
	return handler.AddRequestID(
		handler.Recovery(a.Log,
			handler.Logger(a.Log,
				handler.Tracer(a.Tracer,
					handler.Metrics(
						handler.CORS([]string{"GET", "POST"}, []string{handler.RequestIDHeader},
							http.TimeoutHandler(router, a.HandlerTimeout, "Something went wrong. Timed out."),
						),
						routeMatcher,
					),
					routeMatcher,
				),
			),
		),
	)
}

func (a *API) notFoundHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	return handler.NotFound()
}

// Set headers for static file handlers
func fileHeaders(handler func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		handler(w, r)
	}
}

// Serve a static file
func serveFile(assets fs.FS, name string) func(w http.ResponseWriter, r *http.Request) {
	return fileHeaders(func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(assets, name)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	})
}
