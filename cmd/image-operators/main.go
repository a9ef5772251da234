package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/api"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/cache"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/cache/memory"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/cache/redis"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/cmd"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/health"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/image"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/logger"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/metrics"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/operator"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/storage"
	fileStorage "github.com/halilbalik/WebTemelliGoruntuIsleme/internal/storage/file"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/storage/spaces"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/tracing"

	processor "github.com/halilbalik/WebTemelliGoruntuIsleme/internal/image/operator"

	"github.com/jamiealquiza/envy"
	"github.com/prometheus/common/version"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

const serviceName = "image_operators"

// Comandline flags
var (
	// Global
	listen        = flag.String("listen", ":8080", "listen address")
	metricsListen = flag.String("metrics-listen", "127.0.0.1:8082", "metrics listen address")
	loglevel      = zap.LevelFlag("log-level", zap.InfoLevel, "log level (default \"info\") (debug, info, warn, error, dpanic, panic, fatal)")
	printVersion  = flag.Bool("version", false, "print version information and exit")

	// Processing
	workers        = flag.Int("workers", 0, "amount of images to process at once (default GOMAXPROCS)")
	maxDimension   = flag.Int("max-dimension", 0, "downsize images larger than this before processing, 0 keeps the full size")
	markerColor    = flag.String("marker-color", "#ff0000", "colour corner operators highlight with")
	maxUploadSize  = flag.Int64("max-upload-size", 10<<20, "largest accepted image in bytes, 0 disables the limit")
	handlerTimeout = flag.Duration("handler-timeout", cmd.HandlerTimeout, "time a request may take before it's aborted")

	// Storage
	storageBackend = flag.String("storage", "file", "which storage backend to use (file, spaces)")

	// Storage - File
	storageFilePath = flag.String("storage-file-path", "static/uploads", "directory uploads are stored in, created if missing")

	// Storage - Spaces
	storageSpacesSpace          = flag.String("storage-spaces-space", "", "digitalocean space to use")
	storageSpacesEndpoint       = flag.String("storage-spaces-endpoint", "", "spaces endpoint, https://{region}.digitaloceanspaces.com")
	storageSpacesAccessKey      = flag.String("storage-spaces-access-key", "", "spaces access key")
	storageSpacesSecretKey      = flag.String("storage-spaces-secret-key", "", "spaces secret key")
	storageSpacesForcePathStyle = flag.Bool("storage-spaces-force-path-style", false, "use path style addressing, needed for minio")

	// Cache
	cacheBackend = flag.String("cache", "memory", "which cache backend to use (memory, redis)")

	// Cache - Memory
	cacheMemorySize = flag.Int("cache-memory-size", 256, "amount of results kept in memory, 0 for unbounded")

	// Cache - Redis
	cacheRedisAddress  = flag.String("cache-redis-address", "redis://127.0.0.1:6379", "redis address, may contain authentication details")
	cacheRedisPoolSize = flag.Int("cache-redis-pool-size", 10, "redis connection pool size")
	cacheRedisTTL      = flag.Duration("cache-redis-ttl", 24*time.Hour, "how long results are kept in redis, 0 keeps them forever")
	cacheRedisPrefix   = flag.String("cache-redis-prefix", "image-operators:", "prefix of the keys written to redis")

	// Tracing
	tracingEnabled     = flag.Bool("tracing", false, "export traces over OTLP, configured with the OTEL_EXPORTER_OTLP_* environment variables")
	tracingSampleRatio = flag.Float64("tracing-sample-ratio", 1, "ratio of requests to trace, between 0 and 1")
)

func main() {
	// Parse environment variables
	envy.Parse("OPERATORS")

	// Parse commandline flags
	flag.Parse()

	if *printVersion {
		fmt.Println(version.Print(serviceName))
		os.Exit(0)
	}

	// Initialize the logger
	log := logger.New(*loglevel)
	defer log.Sync()

	// Set GOMAXPROCS
	maxprocs.Set(maxprocs.Logger(log.Infof))

	log.Infow("starting", "version", version.Info(), "build", version.BuildContext())

	// Set up context for shutting down
	shutdownCtx, shutdown := context.WithCancel(context.Background())
	defer shutdown()

	marker, err := operator.ParseMarker(*markerColor)
	if err != nil {
		log.Fatalf("invalid marker color: %s", err)
	}

	// Initialize tracing
	tracer := tracing.Noop(log, serviceName)
	if *tracingEnabled {
		tracer, err = tracing.New(shutdownCtx, log, serviceName, *tracingSampleRatio)
		if err != nil {
			log.Fatalf("error initializing tracing: %s", err)
		}
	}

	// Initialize the storage, cache
	storage, cache, err := setupBackends(shutdownCtx, tracer)
	if err != nil {
		log.Fatalf("error initializing backends: %s", err)
	}
	defer cache.Shutdown()

	// Initialize the image processor
	imageProcessorCtx, imageProcessorCancel := context.WithCancel(context.Background())
	defer imageProcessorCancel()

	if *workers <= 0 {
		*workers = runtime.GOMAXPROCS(0)
	}

	imageProcessor, err := processor.New(imageProcessorCtx, log, tracer, storage, image.NewCache(tracer, cache), processor.Config{
		Workers:      *workers,
		MaxDimension: *maxDimension,
		Marker:       marker,
	})
	if err != nil {
		log.Fatalf("error initializing image processor %s", err.Error())
	}

	// Prometheus metrics
	registry := metrics.NewRegistry(serviceName)
	if err := processor.Register(registry); err != nil {
		log.Fatalf("error registering metrics: %s", err)
	}

	// Initialize and start the health checker
	checkerCtx, checkerCancel := context.WithCancel(context.Background())
	defer checkerCancel()

	checker := &health.Checker{
		Ctx:     checkerCtx,
		Storage: storage,
		Cache:   cache,
		Log:     log,
	}
	go checker.Run()

	// Start the metrics http server
	go metrics.Serve(shutdownCtx, log, checker, registry, *metricsListen)

	// Start and listen on http
	api := &api.API{
		ImageProcessor: imageProcessor,
		Storage:        storage,
		HealthChecker:  checker,
		Log:            log,
		Tracer:         tracer,
		HandlerTimeout: *handlerTimeout,
		MaxUploadSize:  *maxUploadSize,
	}
	server := &http.Server{
		Addr:         *listen,
		Handler:      api.Router(),
		ReadTimeout:  cmd.ReadTimeout,
		WriteTimeout: cmd.WriteTimeout,
		ErrorLog:     logger.NewHTTPErrorLog(log),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Infof("shutting down the http server: %s", err)
			shutdown()
		}
	}()

	log.Infof("http server listening on %s", *listen)

	// Wait for shutdown or error
	err = cmd.WaitForInterrupt(shutdownCtx)
	log.Infof("shutting down: %s", err)

	// Shut down http server
	serverCtx, serverCancel := context.WithTimeout(context.Background(), cmd.ShutdownTimeout)
	defer serverCancel()
	if err := server.Shutdown(serverCtx); err != nil {
		log.Warnf("error shutting down: %s", err)
	}

	// Flush any remaining spans
	tracer.Shutdown(serverCtx)
}

func setupBackends(ctx context.Context, tracer *tracing.Tracer) (storage storage.Provider, cache cache.Provider, err error) {
	// Storage
	switch *storageBackend {
	case "file":
		storage, err = fileStorage.New(*storageFilePath)
	case "spaces":
		storage, err = spaces.New(ctx, *storageSpacesSpace, *storageSpacesEndpoint, *storageSpacesAccessKey, *storageSpacesSecretKey, *storageSpacesForcePathStyle)
	default:
		err = fmt.Errorf("invalid storage backend %q", *storageBackend)
	}

	if err != nil {
		return
	}

	// Cache
	switch *cacheBackend {
	case "memory":
		cache = memory.New(*cacheMemorySize)
	case "redis":
		cache, err = redis.New(ctx, tracer, redis.Config{
			Address:  *cacheRedisAddress,
			PoolSize: *cacheRedisPoolSize,
			TTL:      *cacheRedisTTL,
			Prefix:   *cacheRedisPrefix,
		})
	default:
		err = fmt.Errorf("invalid cache backend %q", *cacheBackend)
	}

	return
}
