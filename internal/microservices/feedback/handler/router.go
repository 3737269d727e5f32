package handler

import "net/http"

func Mount(mux *http.ServeMux, h *FeedbackHandler) {
	mux.HandleFunc("POST /api/v1/sessions/{session_id}/feedback", h.Submit)
	mux.HandleFunc("GET /api/v1/sessions/{session_id}/admin/feedback", h.ListFeedback)
	mux.HandleFunc("GET /api/v1/sessions/{session_id}/admin/users", h.ListUsers)
}
