package www

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ordermate/engine"
	"ordermate/listview"
)

func (h *Handlers) lookupCollection(w http.ResponseWriter, r *http.Request) (collection, bool) {
	name := chi.URLParam(r, "collection")
	c, ok := h.collections[name]
	if !ok {
		h.jsonError(w, "unknown collection: "+name, http.StatusNotFound)
		return nil, false
	}
	return c, true
}

func (h *Handlers) apiList(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookupCollection(w, r)
	if !ok {
		return
	}
	items, err := c.List(r.Context())
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, map[string]any{"success": true, "items": items})
}

// apiCreate inserts one record, or seeds the collection's sample data
// when the body carries createSampleData.
func (h *Handlers) apiCreate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookupCollection(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.jsonError(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var probe struct {
		CreateSampleData bool `json:"createSampleData"`
	}
	json.Unmarshal(body, &probe)

	if probe.CreateSampleData {
		count, err := c.Seed()
		if err != nil {
			h.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := c.Load(r.Context()); err != nil {
			h.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.engine.Events.EmitPayload(engine.EventSeedCreated, engine.SeedCreatedEvent{
			Collection: c.Name(),
			Count:      count,
		})
		h.jsonOK(w, map[string]any{"success": true, "seeded": count})
		return
	}

	id, err := c.Create(r.Context(), body)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := c.Load(r.Context()); err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.engine.Events.EmitPayload(engine.EventRecordsRefreshed, engine.RecordsRefreshedEvent{
		Collection: c.Name(),
		Count:      c.Len(),
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "id": id})
}

func (h *Handlers) apiView(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookupCollection(w, r)
	if !ok {
		return
	}
	resp, err := c.View(r.Context(), r.URL.Query())
	if err != nil {
		loadsTotal.WithLabelValues(c.Name(), "error").Inc()
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, resp)
}

func (h *Handlers) apiRefresh(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookupCollection(w, r)
	if !ok {
		return
	}
	if err := c.Load(r.Context()); err != nil {
		loadsTotal.WithLabelValues(c.Name(), "error").Inc()
		h.jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	loadsTotal.WithLabelValues(c.Name(), "ok").Inc()
	h.engine.Events.EmitPayload(engine.EventRecordsRefreshed, engine.RecordsRefreshedEvent{
		Collection: c.Name(),
		Count:      c.Len(),
	})
	h.jsonOK(w, map[string]any{"success": true, "count": c.Len()})
}

// apiPatch applies a single-field update: body {"field": value}.
func (h *Handlers) apiPatch(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookupCollection(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if len(patch) != 1 {
		h.jsonError(w, "body must contain exactly one field", http.StatusBadRequest)
		return
	}

	var field string
	var value any
	for k, v := range patch {
		field, value = k, v
	}

	if err := c.UpdateField(r.Context(), id, field, value); err != nil {
		mutationsTotal.WithLabelValues(c.Name(), "error").Inc()
		switch {
		case errors.Is(err, listview.ErrNotFound):
			h.jsonError(w, err.Error(), http.StatusNotFound)
		default:
			h.jsonError(w, err.Error(), http.StatusBadGateway)
		}
		return
	}
	mutationsTotal.WithLabelValues(c.Name(), "ok").Inc()

	h.engine.Events.EmitPayload(engine.EventRecordUpdated, engine.RecordUpdatedEvent{
		Collection: c.Name(),
		RecordID:   id,
		Field:      field,
		Value:      value,
	})
	h.jsonOK(w, map[string]any{"success": true})
}
