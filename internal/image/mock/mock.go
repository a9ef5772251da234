package mock

import (
	"context"
	"fmt"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/image"
)

// Processor is a mock image processor
type Processor struct {
	// Result is returned for every task, an error is returned if it's nil
	Result []byte
	// Tasks records the tasks the processor received
	Tasks []*image.Task
}

// ProcessImage returns the configured result
func (p *Processor) ProcessImage(ctx context.Context, task *image.Task) ([]byte, error) {
	p.Tasks = append(p.Tasks, task)

	if p.Result == nil {
		return nil, fmt.Errorf("processing error")
	}

	return p.Result, nil
}
