package apiutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON body written for every failed API request.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteError maps err to a status code and writes it as an ErrorResponse.
// HandlerError keeps its own status; FieldError is a 400; sql.ErrNoRows is a
// 404. Anything else is logged and reported as a 500 without details.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())

	var handlerErr HandlerError
	var fieldErr FieldError
	status := http.StatusInternalServerError
	body := ErrorResponse{Error: "Internal server error"}

	switch {
	case errors.As(err, &handlerErr):
		status = handlerErr.Status
		body.Error = handlerErr.Message
		if errors.As(handlerErr.Err, &fieldErr) {
			body.Field = fieldErr.Field
		}
	case errors.As(err, &fieldErr):
		status = http.StatusBadRequest
		body.Error = fieldErr.Error()
		body.Field = fieldErr.Field
	case errors.Is(err, sql.ErrNoRows):
		status = http.StatusNotFound
		body.Error = "Not found"
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("Request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}

	if writeErr := WriteJSON(w, status, body); writeErr != nil {
		logger.Error().Err(writeErr).Msg("Failed to write error response")
	}
}
