package image

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/operator"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/params"
)

// Task is an image processing task
type Task struct {
	UploadKey string
	Operation string
	Params    operator.Params
}

// NewTask creates a new image processing task
func NewTask(uploadKey string, operation string, p operator.Params) *Task {
	return &Task{
		UploadKey: uploadKey,
		Operation: operation,
		Params:    p,
	}
}

// Canonical returns a stable string describing the operation and all of its parameters
func (t *Task) Canonical() string {
	v := url.Values{}
	v.Set("operation", t.Operation)
	v.Set("c_value", strconv.FormatFloat(t.Params.C, 'g', -1, 64))
	v.Set("thickness", strconv.Itoa(t.Params.Thickness))
	v.Set("gamma", strconv.FormatFloat(t.Params.Gamma, 'g', -1, 64))
	v.Set("kernel_size", strconv.Itoa(t.Params.KernelSize))

	if t.Params.Marker != nil {
		r, g, b, _ := t.Params.Marker.RGBA()
		v.Set("marker", fmt.Sprintf("%02x%02x%02x", r>>8, g>>8, b>>8))
	}

	return params.Canonical(v)
}
