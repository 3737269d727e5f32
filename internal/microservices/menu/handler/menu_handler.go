package handler

import (
	"net/http"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/microservices/menu/service"
)

type MenuHandler struct {
	service service.MenuServiceInterface
}

func NewMenuHandler(svc service.MenuServiceInterface) *MenuHandler {
	return &MenuHandler{service: svc}
}

func (h *MenuHandler) Categories(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"categories": h.service.Categories(r.Context())})
}

func (h *MenuHandler) Category(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	items, err := h.service.Items(r.Context(), category)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"category": category, "items": items})
}

func (h *MenuHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"query": q, "items": nonNil(h.service.Search(r.Context(), q))})
}

// Filter takes repeated ?tag= parameters and returns items matching all of them.
func (h *MenuHandler) Filter(w http.ResponseWriter, r *http.Request) {
	tags := r.URL.Query()["tag"]
	items, err := h.service.Filter(r.Context(), tags)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"tags": tags, "items": nonNil(items)})
}

func (h *MenuHandler) Preferences(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"preferences": h.service.Preferences(r.Context())})
}

func (h *MenuHandler) Preference(w http.ResponseWriter, r *http.Request) {
	pref := r.PathValue("preference")
	items, err := h.service.ByPreference(r.Context(), pref)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"preference": pref, "items": nonNil(items)})
}

func nonNil(items []domain.MenuItem) []domain.MenuItem {
	if items == nil {
		return []domain.MenuItem{}
	}
	return items
}
