package params

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/operator"
)

// Form field names
const (
	FieldOperation  = "operation"
	FieldC          = "c_value"
	FieldThickness  = "thickness"
	FieldGamma      = "gamma"
	FieldKernelSize = "kernel_size"
	FieldImage      = "image"
)

// Errors
var (
	ErrMissingFile  = errors.New("no image file was uploaded")
	ErrFileTooLarge = errors.New("image file is too large")
)

// Params contains all the parameters of a processing request
type Params struct {
	Operation string
	Operator  operator.Params
}

// Upload is an uploaded image
type Upload struct {
	Filename string
	Data     []byte
}

// GetParams parses the operation and the numeric form fields of a request.
// Missing or empty numeric fields take their default value, the operation is passed through as is.
func GetParams(r *http.Request) (*Params, error) {
	p := operator.DefaultParams()

	var err error
	if p.C, err = floatField(r, FieldC, p.C); err != nil {
		return nil, err
	}

	if p.Thickness, err = intField(r, FieldThickness, p.Thickness); err != nil {
		return nil, err
	}

	if p.Gamma, err = floatField(r, FieldGamma, p.Gamma); err != nil {
		return nil, err
	}

	if p.KernelSize, err = intField(r, FieldKernelSize, p.KernelSize); err != nil {
		return nil, err
	}

	return &Params{
		Operation: r.FormValue(FieldOperation),
		Operator:  p,
	}, nil
}

// GetUpload reads the uploaded image, failing with ErrMissingFile if there is none
func GetUpload(r *http.Request, maxSize int64) (*Upload, error) {
	file, header, err := r.FormFile(FieldImage)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, ErrMissingFile
		}

		return nil, err
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, ErrMissingFile
	}

	reader := io.Reader(file)
	if maxSize > 0 {
		reader = io.LimitReader(file, maxSize+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, ErrFileTooLarge
	}

	if len(data) == 0 {
		return nil, ErrMissingFile
	}

	return &Upload{
		Filename: header.Filename,
		Data:     data,
	}, nil
}

func floatField(r *http.Request, name string, fallback float64) (float64, error) {
	value := strings.TrimSpace(r.FormValue(name))
	if value == "" {
		return fallback, nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", name, value)
	}

	return f, nil
}

func intField(r *http.Request, name string, fallback int) (int, error) {
	value := strings.TrimSpace(r.FormValue(name))
	if value == "" {
		return fallback, nil
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", name, value)
	}

	return i, nil
}
