package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/handler"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/image"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/operator"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/params"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/storage"
)

// Form values that don't fit in memory are spilled to temporary files
const maxFormMemory = 32 << 20

// Room for the multipart framing and the other form fields on top of the image itself
const formOverhead = 1 << 20

// dataURIPrefix is prepended to the base64 encoded PNG result
const dataURIPrefix = "data:image/png;base64,"

// processImageHandler answers with a JSON payload for every failure it can attribute to the request,
// infrastructure errors are left to the middleware
func (a *API) processImageHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	if a.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadSize+formOverhead)
	}

	p, upload, err := a.parseRequest(r)
	if err != nil {
		a.logInfo(r, "invalid request", err)
		respondError(w, err)
		return nil
	}

	key, err := storage.Key(upload.Filename)
	if err != nil {
		a.logInfo(r, "invalid file name", err)
		respondError(w, err)
		return nil
	}

	if err := a.Storage.Put(r.Context(), key, upload.Data); err != nil {
		a.logError(r, "error storing upload", err)
		respondError(w, fmt.Errorf("error storing upload: %w", err))
		return nil
	}

	processedImage, err := a.ImageProcessor.ProcessImage(r.Context(), image.NewTask(key, p.Operation, p.Operator))
	if err != nil {
		a.logError(r, "error processing image", err)
		respondError(w, err)
		return nil
	}

	respond(w, handler.Response{
		Status: handler.StatusSuccess,
		Image:  dataURIPrefix + base64.StdEncoding.EncodeToString(processedImage),
	})

	return nil
}

func (a *API) parseRequest(r *http.Request) (*params.Params, *params.Upload, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, fmt.Errorf("error reading form: %w", err)
	}

	p, err := params.GetParams(r)
	if err != nil {
		return nil, nil, err
	}

	upload, err := params.GetUpload(r, a.MaxUploadSize)
	if err != nil {
		return nil, nil, err
	}

	// Don't stage uploads for operators that don't exist
	if err := operator.Validate(p.Operation); err != nil {
		return nil, nil, err
	}

	return p, upload, nil
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, handler.Response{Status: handler.StatusError, Message: err.Error()})
}

func respond(w http.ResponseWriter, response handler.Response) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	handler.WriteJSON(w, http.StatusOK, response)
}
