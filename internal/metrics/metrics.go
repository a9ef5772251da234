package metrics

import (
	"context"
	"net/http"
	"net/http/pprof"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/handler"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/health"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
)

// NewRegistry returns a prometheus registry with the process, go runtime and build info collectors registered
func NewRegistry(program string) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		version.NewCollector(program),
	)

	return reg
}

// Router returns the routes served by the metrics server
func Router(log *logger.Logger, healthChecker *health.Checker, gatherer prometheus.Gatherer) http.Handler {
	router := http.NewServeMux()
	router.HandleFunc("/metrics", handler.VarzHandler)
	router.Handle("/metrics/prometheus", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog: zapErrorLog{log},
	}))
	router.Handle("/health", handler.Health(healthChecker))

	router.HandleFunc("/debug/pprof/", pprof.Index)
	router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("/debug/pprof/profile", pprof.Profile)
	router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return router
}

// Serve starts an http server for metrics and healthchecks
func Serve(ctx context.Context, log *logger.Logger, healthChecker *health.Checker, gatherer prometheus.Gatherer, listenAddress string) {
	server := &http.Server{
		Addr:     listenAddress,
		Handler:  Router(log, healthChecker, gatherer),
		ErrorLog: logger.NewHTTPErrorLog(log),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Infof("shutting down the metrics http server: %s", err)
		}
	}()

	log.Infof("metrics http server listening on %s", listenAddress)

	<-ctx.Done()

	if err := server.Close(); err != nil {
		log.Warnf("error shutting down metrics http server: %s", err)
	}
}

type zapErrorLog struct {
	log *logger.Logger
}

func (z zapErrorLog) Println(v ...interface{}) {
	z.log.Error(v...)
}
