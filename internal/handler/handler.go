package handler

import (
	"encoding/json"
	"net/http"
)

// Error is the message and http status code to return
type Error struct {
	Message string
	Code    int
}

func (e *Error) Error() string {
	return e.Message
}

// InternalServerError is a convenience function for returning an internal server error
func InternalServerError() *Error {
	return &Error{
		Message: "Something went wrong",
		Code:    http.StatusInternalServerError,
	}
}

// BadRequest is a convenience function for returning a bad request error
func BadRequest(message string) *Error {
	return &Error{
		Message: message,
		Code:    http.StatusBadRequest,
	}
}

// NotFound is a convenience function for returning a not found error
func NotFound() *Error {
	return &Error{
		Message: "page not found",
		Code:    http.StatusNotFound,
	}
}

// Status values of a response payload
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the JSON payload returned by the api
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Image   string `json:"image,omitempty"`
}

// Handler wraps a http handler and deals with responding to errors
type Handler func(w http.ResponseWriter, r *http.Request) *Error

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h(w, r); err != nil {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		WriteJSON(w, err.Code, Response{Status: StatusError, Message: err.Message})
	}
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, code int, data interface{}) {
	buf, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(append(buf, '\n'))
}
