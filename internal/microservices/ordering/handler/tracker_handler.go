package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/microservices/ordering/service"
)

// TrackerHandler plays back the delivery progression. The service returns
// the whole list at once; pacing happens only here, in the stream endpoint.
type TrackerHandler struct {
	service service.OrderingServiceInterface
	step    time.Duration
}

func NewTrackerHandler(svc service.OrderingServiceInterface, step time.Duration) *TrackerHandler {
	return &TrackerHandler{service: svc, step: step}
}

const noOrderMessage = "No order placed yet"

// GetStatus reports whether an order exists. It never changes the session.
func (h *TrackerHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.GetSession(r.Context(), sessionID(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	resp := map[string]any{
		"session_id":   s.ID,
		"state":        s.State,
		"order_placed": s.OrderPlaced,
	}
	if s.LastOrder != nil {
		resp["order_id"] = s.LastOrder.ID
		resp["placed_at"] = s.LastOrder.PlacedAt
	} else {
		resp["message"] = noOrderMessage
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *TrackerHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	statuses, err := h.service.TrackOrder(r.Context(), id)
	if errors.Is(err, domain.ErrNoOrder) {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"session_id": id, "order_placed": false, "message": noOrderMessage, "statuses": []domain.OrderStatus{},
		})
		return
	}
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"session_id": id, "order_placed": true, "statuses": statuses,
	})
}

type streamEvent struct {
	Step   int                `json:"step"`
	Of     int                `json:"of"`
	Status domain.OrderStatus `json:"status"`
}

// Stream writes one NDJSON line per status, waiting the configured step
// between lines. A client disconnect ends the stream early.
func (h *TrackerHandler) Stream(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.service.TrackOrder(r.Context(), sessionID(r))
	if errors.Is(err, domain.ErrNoOrder) {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"order_placed": false, "message": noOrderMessage})
		return
	}
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	// the playback may outlast the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)

	for i, st := range statuses {
		if i > 0 && h.step > 0 {
			t := time.NewTimer(h.step)
			select {
			case <-r.Context().Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
		if err := enc.Encode(streamEvent{Step: i + 1, Of: len(statuses), Status: st}); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}
