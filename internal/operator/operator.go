package operator

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sort"

	"gocv.io/x/gocv"
)

// Default parameter values
const (
	DefaultC          = 2.0
	DefaultThickness  = 20
	DefaultGamma      = 2.0
	DefaultKernelSize = 5
)

// DefaultMarker is the colour used to highlight corners
var DefaultMarker = color.NRGBA{R: 255, A: 255}

// Errors
var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrEmptyImage       = errors.New("empty image")
	ErrInvalidGamma     = errors.New("gamma must be greater than zero")
	ErrInvalidKernel    = errors.New("kernel size must be odd and at most 31")
	ErrInvalidQuality   = errors.New("quality level must be greater than zero")
	ErrInvalidDistance  = errors.New("minimum distance must not be negative")
)

// Params contains the tuning parameters shared by all operators
type Params struct {
	C          float64
	Thickness  int
	Gamma      float64
	KernelSize int

	// Marker is the colour corner operators paint with, DefaultMarker if nil
	Marker color.Color
}

// DefaultParams returns the parameters used when a request doesn't specify any
func DefaultParams() Params {
	return Params{
		C:          DefaultC,
		Thickness:  DefaultThickness,
		Gamma:      DefaultGamma,
		KernelSize: DefaultKernelSize,
	}
}

func (p Params) marker() color.RGBA {
	if p.Marker == nil {
		return color.RGBA{R: DefaultMarker.R, G: DefaultMarker.G, B: DefaultMarker.B, A: 255}
	}

	c := color.NRGBAModel.Convert(p.Marker).(color.NRGBA)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Func is an operator routine. It receives an 8 bit BGR image, which it must not modify,
// and returns a new image the caller owns.
type Func func(ctx context.Context, src gocv.Mat, p Params) (gocv.Mat, error)

var operators = map[string]Func{
	"sobel":      sobel,
	"prewitt":    prewitt,
	"roberts":    roberts,
	"laplacian":  laplacian,
	"canny":      canny,
	"harris":     harris,
	"shi_tomasi": shiTomasi,
}

// Names returns the names of all operators, sorted
func Names() []string {
	names := make([]string, 0, len(operators))
	for name := range operators {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Exists returns whether an operator with the given name exists
func Exists(name string) bool {
	_, ok := operators[name]
	return ok
}

// Validate returns an error wrapping ErrUnknownOperation if no operator has the given name
func Validate(name string) error {
	if !Exists(name) {
		return fmt.Errorf("%w %q", ErrUnknownOperation, name)
	}

	return nil
}

// Apply runs the named operator on an 8 bit BGR image, as decoded by gocv.IMDecode with
// gocv.IMReadColor. The source is left untouched. The returned image must be closed by the caller,
// on errors too.
func Apply(ctx context.Context, src gocv.Mat, name string, p Params) (gocv.Mat, error) {
	if err := Validate(name); err != nil {
		return gocv.NewMat(), err
	}
	op := operators[name]

	if src.Empty() {
		return gocv.NewMat(), ErrEmptyImage
	}

	if err := ctx.Err(); err != nil {
		return gocv.NewMat(), err
	}

	result, err := op(ctx, src, p)
	if err != nil {
		result.Close()
		return gocv.NewMat(), err
	}

	return result, nil
}

func validateKernel(ksize int) error {
	if ksize%2 == 0 || ksize < 1 || ksize > 31 {
		return ErrInvalidKernel
	}

	return nil
}
