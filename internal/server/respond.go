package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/apatti/hyroxtrainer/internal/models"
	"github.com/apatti/hyroxtrainer/internal/oracle"
	"github.com/apatti/hyroxtrainer/internal/program"
	"github.com/apatti/hyroxtrainer/internal/session"
	"github.com/apatti/hyroxtrainer/internal/storage"
	"github.com/apatti/hyroxtrainer/internal/validate"
)

// maxBodyBytes bounds request bodies; pasted programs are the largest legitimate input.
const maxBodyBytes = 1 << 20

// errBadRequest marks malformed requests (bad JSON, query parameters, path IDs).
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Path  string `json:"path,omitempty"`
}

// statusFor maps an error onto an HTTP status and a short machine-readable kind.
func statusFor(err error) (int, string) {
	var (
		schemaErr  *program.SchemaError
		partialErr *storage.PartialSaveError
	)
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, program.ErrEmptyInput):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, validate.ErrInvalid):
		return http.StatusBadRequest, "invalid_input"
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity, "schema"
	case errors.Is(err, oracle.ErrTimeout):
		return http.StatusGatewayTimeout, "oracle_timeout"
	case errors.Is(err, oracle.ErrMalformedResponse):
		return http.StatusBadGateway, "oracle_response"
	case errors.Is(err, session.ErrNoActiveSession):
		return http.StatusNotFound, "no_active_session"
	case errors.Is(err, session.ErrSessionActive), errors.Is(err, session.ErrInvalidState):
		return http.StatusConflict, "session_state"
	case errors.Is(err, session.ErrUnknownExercise):
		return http.StatusNotFound, "unknown_exercise"
	case errors.As(err, &partialErr):
		return http.StatusInternalServerError, "partial_save"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, storage.ErrConstraint):
		return http.StatusUnprocessableEntity, "constraint"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)
	body := errorBody{Error: err.Error(), Kind: kind}

	var schemaErr *program.SchemaError
	if errors.As(err, &schemaErr) {
		body.Path = schemaErr.Path
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		if status == http.StatusInternalServerError && kind == "internal" {
			body.Error = "internal error"
		}
	}
	writeJSON(w, status, body)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON: %w", errBadRequest, err)
	}
	return nil
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, badRequest("invalid %s", param)
	}
	return id, nil
}

func queryUUID(r *http.Request, param string) (*uuid.UUID, error) {
	v := r.URL.Query().Get(param)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, badRequest("invalid %s", param)
	}
	return &id, nil
}

func queryInt(r *http.Request, param string, def int) (int, error) {
	v := r.URL.Query().Get(param)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, badRequest("%s must be a non-negative integer", param)
	}
	return n, nil
}

func queryDate(r *http.Request, param string) (*models.Date, error) {
	v := r.URL.Query().Get(param)
	if v == "" {
		return nil, nil
	}
	d, err := models.ParseDate(v)
	if err != nil {
		return nil, badRequest("%s must be YYYY-MM-DD", param)
	}
	return &d, nil
}
