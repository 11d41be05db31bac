package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"blockdebug/internal/domain"
)

// Handler implements the /v1/runs HTTP surface.
type Handler struct {
	runner RunLauncher
	logger *slog.Logger
}

// CreateRun handles POST /v1/runs: decode a RunRequest, run the blocking
// debugger synchronously, and return its outcome.
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"code": 400, "message": "malformed request body"})
		return
	}

	result, err := h.runner.Launch(r.Context(), req)
	if err != nil {
		h.writeError(w, err, result)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// GetRun handles GET /v1/runs/{id}.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.runner.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ListRuns handles GET /v1/runs?limit=N.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	results, err := h.runner.List(r.Context(), limit)
	if err != nil {
		h.writeError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, partial *RunResultDTO) {
	status := http.StatusInternalServerError

	var invalidArg *domain.InvalidArgumentError
	var unknownCol *domain.UnknownColumnError
	var malformedCorres *domain.MalformedCorrespondenceError
	var emptyCorres *domain.EmptyCorrespondenceError
	var dupKey *domain.DuplicateKeyError
	var schemaMismatch *domain.SchemaMismatchError
	var unknownKey *domain.UnknownKeyError

	switch {
	case errors.As(err, &invalidArg), errors.As(err, &unknownCol), errors.As(err, &malformedCorres),
		errors.As(err, &emptyCorres), errors.As(err, &dupKey), errors.As(err, &schemaMismatch):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &unknownKey):
		status = http.StatusNotFound
	}

	body := map[string]interface{}{"code": status, "message": err.Error()}
	if partial != nil {
		body["run"] = partial
	}

	h.logger.Error("request failed", "error", err)
	writeJSON(w, status, body)
}
