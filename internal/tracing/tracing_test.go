package tracing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/logger"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/tracing"
	"go.uber.org/zap"
)

func TestNoop(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	tracer := tracing.Noop(log, "test")

	ctx, span := tracer.Start(context.Background(), "noop")
	tracing.RecordError(span, errors.New("failure"))
	span.End()

	if span.IsRecording() {
		t.Error("noop span is recording")
	}

	traceID, spanID := tracing.TraceInfo(ctx)
	if traceID != "00000000000000000000000000000000" || spanID != "0000000000000000" {
		t.Errorf("wrong trace info %s %s", traceID, spanID)
	}

	tracer.Shutdown(context.Background())
}

func TestNewInvalidSampleRatio(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	for _, ratio := range []float64{-0.1, 1.5} {
		if _, err := tracing.New(context.Background(), log, "test", ratio); err == nil {
			t.Errorf("%v: no error", ratio)
		}
	}
}
