package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"kankotri/internal/delivery"

	"go.uber.org/zap"
)

// Path is where the status sink posts.
const Path = "/api/logs"

type store interface {
	Insert(ctx context.Context, e Entry) (Entry, error)
	List(ctx context.Context, limit int) ([]Entry, error)
}

type logRequest struct {
	Name    string `json:"name"`
	Number  string `json:"number"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Handler serves POST and GET on /api/logs.
func Handler(s store, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()
	mux.HandleFunc(Path, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			create(w, r, s, log)
		case http.MethodGet:
			list(w, r, s, log)
		default:
			w.Header().Set("Allow", "GET, POST")
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})
	return mux
}

func create(w http.ResponseWriter, r *http.Request, s store, log *zap.Logger) {
	var req logRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	e, err := s.Insert(r.Context(), Entry{
		Name:    req.Name,
		Number:  req.Number,
		Status:  delivery.Status(req.Status),
		Message: req.Message,
	})
	if errors.Is(err, ErrInvalidEntry) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Error("Failed to store status", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store log")
		return
	}

	log.Debug("Status stored", zap.Int64("id", e.ID), zap.String("name", e.Name), zap.String("status", e.Status.String()))
	writeJSON(w, http.StatusCreated, e)
}

func list(w http.ResponseWriter, r *http.Request, s store, log *zap.Logger) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	entries, err := s.List(r.Context(), limit)
	if err != nil {
		log.Error("Failed to list statuses", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list logs")
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
