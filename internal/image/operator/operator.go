package operator

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	goimage "image"
	"image/color"
	"math"
	"time"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/image"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/logger"
	ops "github.com/halilbalik/WebTemelliGoruntuIsleme/internal/operator"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/queue"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/storage"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gocv.io/x/gocv"
)

// ErrUnknownFormat is returned for uploads that can't be decoded as an image
var ErrUnknownFormat = errors.New("unknown format")

// Processor is an image processor that runs operators on uploaded images in a bounded worker queue
type Processor struct {
	queue        *queue.Queue
	storage      storage.Provider
	cache        *image.Cache
	tracer       *tracing.Tracer
	maxDimension int
	marker       color.NRGBA
}

// Config contains the processor settings
type Config struct {
	// Workers is the amount of images processed at once
	Workers int
	// MaxDimension downsizes larger images to fit a square of this size, 0 disables it
	MaxDimension int
	// Marker is the colour corner operators paint with
	Marker color.NRGBA
}

var (
	queueSize       = expvar.NewInt("gauge_image_processor_queue_size")
	processedImages = expvar.NewMap("counter_labelmap_operation_image_processor_processed_images")
)

// New initializes a new processor instance, the workers stop when ctx is done
func New(ctx context.Context, log *logger.Logger, tracer *tracing.Tracer, storage storage.Provider, cache *image.Cache, cfg Config) (*Processor, error) {
	if cfg.Marker.A == 0 {
		cfg.Marker = ops.DefaultMarker
	}

	instance := &Processor{
		storage:      storage,
		cache:        cache,
		tracer:       tracer,
		maxDimension: cfg.MaxDimension,
		marker:       cfg.Marker,
	}

	instance.queue = queue.New(ctx, cfg.Workers, instance.taskProcessor)

	go instance.queue.Run()
	log.Infof("starting operator worker queue with %d workers", cfg.Workers)

	return instance, nil
}

// ProcessImage loads an upload, runs the task's operator on it and returns the result encoded as PNG
func (p *Processor) ProcessImage(ctx context.Context, task *image.Task) (processedImage []byte, err error) {
	ctx, span := p.tracer.Start(ctx, "operator.Processor.ProcessImage",
		trace.WithAttributes(attribute.String("operation", task.Operation)),
	)
	defer span.End()

	queueSize.Add(1)
	defer queueSize.Add(-1)

	result, err := p.queue.Process(ctx, task)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	buf, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("error getting result")
	}

	return buf, nil
}

func (p *Processor) taskProcessor(ctx context.Context, data interface{}) (interface{}, error) {
	task, ok := data.(*image.Task)
	if !ok {
		return nil, fmt.Errorf("invalid data")
	}

	// Fail early, unknown operators never reach the cache
	if err := ops.Validate(task.Operation); err != nil {
		return nil, err
	}

	upload, err := p.storage.Get(ctx, task.UploadKey)
	if err != nil {
		return nil, fmt.Errorf("error reading upload: %w", err)
	}

	t := *task
	if t.Params.Marker == nil {
		t.Params.Marker = p.marker
	}

	return p.cache.Load(ctx, image.CacheKey(upload, &t), func(ctx context.Context, key string) ([]byte, error) {
		return p.render(ctx, upload, &t)
	})
}

func (p *Processor) render(ctx context.Context, upload []byte, task *image.Task) ([]byte, error) {
	ctx, span := p.tracer.Start(ctx, "operator.Processor.render")
	defer span.End()

	start := time.Now()
	buf, err := p.renderImage(ctx, upload, task)
	observe(task.Operation, time.Since(start), err)
	processedImages.Add(task.Operation, 1)

	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	return buf, nil
}

func (p *Processor) renderImage(ctx context.Context, upload []byte, task *image.Task) ([]byte, error) {
	// Colour decoding drops alpha and applies the EXIF orientation
	src, err := gocv.IMDecode(upload, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("unreadable image: %w", err)
	}
	defer src.Close()

	if src.Empty() {
		return nil, fmt.Errorf("unreadable image: %w", ErrUnknownFormat)
	}

	if p.maxDimension > 0 && (src.Cols() > p.maxDimension || src.Rows() > p.maxDimension) {
		resized := gocv.NewMat()
		defer resized.Close()

		gocv.Resize(src, &resized, fit(src.Cols(), src.Rows(), p.maxDimension), 0, 0, gocv.InterpolationArea)
		src, resized = resized, src
	}

	result, err := ops.Apply(ctx, src, task.Operation, task.Params)
	defer result.Close()
	if err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, result)
	if err != nil {
		return nil, fmt.Errorf("error encoding result: %w", err)
	}
	defer buf.Close()

	// The encoded bytes live in native memory until buf is closed
	return append([]byte(nil), buf.GetBytes()...), nil
}

// fit returns the largest size with the aspect ratio of width x height that fits a square of side limit
func fit(width, height, limit int) goimage.Point {
	if width >= height {
		return goimage.Pt(limit, max(1, int(math.Round(float64(height)*float64(limit)/float64(width)))))
	}

	return goimage.Pt(max(1, int(math.Round(float64(width)*float64(limit)/float64(height)))), limit)
}
