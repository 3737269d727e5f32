package handler

import "net/http"

type Handler struct {
	OrderingHandler *OrderingHandler
	TrackerHandler  *TrackerHandler
}

func Mount(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /api/v1/sessions", h.OrderingHandler.CreateSession)
	mux.HandleFunc("GET /api/v1/sessions/{session_id}", h.OrderingHandler.GetSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{session_id}", h.OrderingHandler.DeleteSession)

	mux.HandleFunc("GET /api/v1/sessions/{session_id}/cart", h.OrderingHandler.GetCart)
	mux.HandleFunc("POST /api/v1/sessions/{session_id}/cart", h.OrderingHandler.AddToCart)
	mux.HandleFunc("POST /api/v1/sessions/{session_id}/orders", h.OrderingHandler.PlaceOrder)
	mux.HandleFunc("GET /api/v1/sessions/{session_id}/favorites", h.OrderingHandler.GetFavorites)
	mux.HandleFunc("POST /api/v1/sessions/{session_id}/favorites", h.OrderingHandler.ToggleFavorite)

	mux.HandleFunc("GET /api/v1/sessions/{session_id}/order/status", h.TrackerHandler.GetStatus)
	mux.HandleFunc("GET /api/v1/sessions/{session_id}/order/timeline", h.TrackerHandler.GetTimeline)
	mux.HandleFunc("GET /api/v1/sessions/{session_id}/order/stream", h.TrackerHandler.Stream)
}
