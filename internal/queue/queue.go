package queue

import (
	"context"
	"errors"
)

// ErrShutdown is returned when submitting to a queue that has been shut down
var ErrShutdown = errors.New("queue has been shutdown")

// Handler processes a single job
type Handler func(ctx context.Context, data interface{}) (interface{}, error)

// Queue is a worker queue with a fixed amount of workers
type Queue struct {
	ctx     context.Context
	workers int
	queue   chan job
	handler Handler
}

type job struct {
	ctx    context.Context
	data   interface{}
	result chan jobResult
}

type jobResult struct {
	result interface{}
	err    error
}

// New creates a new Queue with the specified amount of workers, the queue stops when ctx is done
func New(ctx context.Context, workers int, handler Handler) *Queue {
	if workers < 1 {
		workers = 1
	}

	return &Queue{
		ctx:     ctx,
		workers: workers,
		queue:   make(chan job),
		handler: handler,
	}
}

// Run starts the workers and blocks until the queue is shut down
func (q *Queue) Run() {
	done := make(chan struct{})
	for i := 0; i < q.workers; i++ {
		go func() {
			q.worker()
			done <- struct{}{}
		}()
	}

	for i := 0; i < q.workers; i++ {
		<-done
	}
}

func (q *Queue) worker() {
	for {
		select {
		case <-q.ctx.Done():
			return
		case j := <-q.queue:
			// The submitter may have given up while the job was waiting
			if err := j.ctx.Err(); err != nil {
				j.result <- jobResult{err: err}
				continue
			}

			result, err := q.handler(j.ctx, j.data)
			j.result <- jobResult{
				result: result,
				err:    err,
			}
		}
	}
}

// Process adds a job to the queue, waits for it to process, and returns the result
func (q *Queue) Process(ctx context.Context, data interface{}) (interface{}, error) {
	if q.ctx.Err() != nil {
		return nil, ErrShutdown
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Buffered so that a worker never blocks on an abandoned job
	resultChan := make(chan jobResult, 1)

	select {
	case q.queue <- job{ctx: ctx, data: data, result: resultChan}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.ctx.Done():
		return nil, ErrShutdown
	}

	select {
	case result := <-resultChan:
		if result.err != nil {
			return nil, result.err
		}

		return result.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
