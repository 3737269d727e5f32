package handler

import "net/http"

func Mount(mux *http.ServeMux, h *AuthHandler) {
	mux.HandleFunc("POST /api/v1/users", h.Register)
	mux.HandleFunc("POST /api/v1/sessions/{session_id}/login", h.Login)
	mux.HandleFunc("POST /api/v1/sessions/{session_id}/logout", h.Logout)
}
