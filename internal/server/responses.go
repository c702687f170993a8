package server

import (
	"encoding/json"
	"net/http"
)

// APIError is an error that knows its HTTP status.
type APIError interface {
	Error() string
	StatusCode() int
}

type BadRequestError struct {
	Msg string
}

func (e BadRequestError) Error() string { return e.Msg }

func (BadRequestError) StatusCode() int { return http.StatusBadRequest }

type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string { return e.Msg }

func (UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

type NotFoundError struct {
	Msg string
}

func (e NotFoundError) Error() string { return e.Msg }

func (NotFoundError) StatusCode() int { return http.StatusNotFound }

type InternalServerError struct {
	Msg string
}

func (e InternalServerError) Error() string { return e.Msg }

func (InternalServerError) StatusCode() int { return http.StatusInternalServerError }

// Response is the envelope every JSON API reply uses.
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Error   any  `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}

func handleSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// handleError maps err to its status. Anything that is not an APIError is
// reported as a generic 500 so internal details never reach the client.
func handleError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "Internal Server Error"
	if apiErr, ok := err.(APIError); ok {
		status = apiErr.StatusCode()
		msg = apiErr.Error()
	}
	writeJSON(w, status, Response{Success: false, Error: msg})
}
