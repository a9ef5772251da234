package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Http timeouts, uploads and operator runs are slow so these are generous
const (
	ReadTimeout    = 30 * time.Second
	WriteTimeout   = time.Minute
	HandlerTimeout = 45 * time.Second
)

// ShutdownTimeout is how long in-flight requests get to finish on shutdown
const ShutdownTimeout = WriteTimeout

// ErrCanceled is returned by WaitForInterrupt when its context is done
var ErrCanceled = errors.New("canceled")

// WaitForInterrupt blocks until SIGINT or SIGTERM is received or ctx is done
func WaitForInterrupt(ctx context.Context) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case sig := <-c:
		return fmt.Errorf("received signal %s", sig)
	case <-ctx.Done():
		return ErrCanceled
	}
}
