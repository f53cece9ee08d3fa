package www

import (
	"encoding/json"
	"net/http"
)

// apiDashboard returns every collection's summary counters in one shot.
// Backed by the redis stat cache when available; otherwise each summary
// is computed directly.
func (h *Handlers) apiDashboard(w http.ResponseWriter, r *http.Request) {
	if mgr := h.engine.Stats(); mgr != nil {
		h.jsonOK(w, map[string]any{
			"success":     true,
			"collections": mgr.GetAll(r.Context()),
		})
		return
	}

	summaries := map[string]any{}
	for name, c := range h.collections {
		s, err := c.Summary(r.Context())
		if err != nil {
			continue
		}
		summaries[name] = s
	}
	h.jsonOK(w, map[string]any{"success": true, "collections": summaries})
}

func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	dbOK := h.engine.DB().Ping() == nil
	messaging := false
	if mc := h.engine.MsgClient(); mc != nil {
		messaging = mc.IsConnected()
	}
	status := "ok"
	code := http.StatusOK
	if !dbOK {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"status":      status,
		"database":    dbOK,
		"messaging":   messaging,
		"sse_clients": h.eventHub.ClientCount(),
	})
}
