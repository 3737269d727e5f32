package handler

import "net/http"

func Mount(mux *http.ServeMux, h *MenuHandler) {
	mux.HandleFunc("GET /api/v1/menu", h.Categories)
	mux.HandleFunc("GET /api/v1/menu/categories/{category}", h.Category)
	mux.HandleFunc("GET /api/v1/menu/search", h.Search)
	mux.HandleFunc("GET /api/v1/menu/filter", h.Filter)
	mux.HandleFunc("GET /api/v1/menu/dietary", h.Preferences)
	mux.HandleFunc("GET /api/v1/menu/dietary/{preference}", h.Preference)
}
