package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"grainbroker-api/logger"
	"grainbroker-api/repository"
	"grainbroker-api/repository/models"
	"grainbroker-api/service"
)

func customerID(c *models.Customer) uuid.UUID { return c.ID }
func supplierID(s *models.Supplier) uuid.UUID { return s.ID }
func orderID(o *models.Order) uuid.UUID       { return o.ID }

// resource serves one entity's REST surface. The three resource groups share
// this dispatch; the only logic beyond it is the path-vs-body id check on PUT.
type resource[T any] struct {
	name string
	svc  service.CRUD[T]
	idOf func(*T) uuid.UUID
}

func registerResource[T any](mux *http.ServeMux, name string, svc service.CRUD[T], idOf func(*T) uuid.UUID) {
	res := &resource[T]{name: name, svc: svc, idOf: idOf}
	mux.HandleFunc("/api/"+name, res.handleCollection)
	mux.HandleFunc("/api/"+name+"/", res.handleItem)
}

// handleCollection serves GET (list) and POST (create) on /api/{Resource}.
func (h *resource[T]) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entities, err := h.svc.List(r.Context())
		if err != nil {
			writeServiceError(r.Context(), w, err)
			return
		}
		if entities == nil {
			entities = []T{}
		}
		writeJSON(w, http.StatusOK, entities)

	case http.MethodPost:
		entity := new(T)
		if err := json.NewDecoder(r.Body).Decode(entity); err != nil {
			JSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		created, err := h.svc.Create(r.Context(), entity)
		if err != nil {
			writeServiceError(r.Context(), w, err)
			return
		}
		w.Header().Set("Location", "/api/"+h.name+"/"+h.idOf(created).String())
		writeJSON(w, http.StatusCreated, created)

	default:
		JSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleItem serves GET, PUT, and DELETE on /api/{Resource}/{id}.
func (h *resource[T]) handleItem(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/"+h.name+"/")
	if idStr == "" || strings.Contains(idStr, "/") {
		JSONError(w, "Invalid path", http.StatusBadRequest)
		return
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		JSONError(w, "Invalid id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		entity, err := h.svc.GetByID(r.Context(), id)
		if err != nil {
			writeServiceError(r.Context(), w, err)
			return
		}
		if entity == nil {
			JSONError(w, "Not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, entity)

	case http.MethodPut:
		entity := new(T)
		if err := json.NewDecoder(r.Body).Decode(entity); err != nil {
			JSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		// Path and body must agree before the service is involved.
		if id != h.idOf(entity) {
			JSONError(w, "ID mismatch", http.StatusBadRequest)
			return
		}
		outcome, err := h.svc.Update(r.Context(), id, entity)
		if err != nil {
			writeServiceError(r.Context(), w, err)
			return
		}
		switch outcome {
		case service.Updated:
			w.WriteHeader(http.StatusNoContent)
		case service.UpdateIDMismatch:
			JSONError(w, "ID mismatch", http.StatusBadRequest)
		case service.UpdateNotFound:
			JSONError(w, "Not found", http.StatusNotFound)
		}

	case http.MethodDelete:
		deleted, err := h.svc.Delete(r.Context(), id)
		if err != nil {
			writeServiceError(r.Context(), w, err)
			return
		}
		if !deleted {
			JSONError(w, "Not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		JSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// writeServiceError maps a service failure onto the response. Validation
// failures are the caller's fault; everything else, including an unresolved
// concurrency conflict and a store-level integrity violation, surfaces as a
// server error.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		JSONError(w, verr.Message, http.StatusBadRequest)
		return
	}

	log := logger.FromCtx(ctx)
	switch {
	case errors.Is(err, repository.ErrConcurrency):
		log.Error("unresolved concurrency conflict", zap.Error(err))
	case repository.IsForeignKeyViolation(err):
		log.Error("referential integrity violation", zap.Error(err))
	default:
		log.Error("unhandled service error", zap.Error(err))
	}
	JSONError(w, "Internal server error", http.StatusInternalServerError)
}
