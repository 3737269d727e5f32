package handler

import (
	"net/http"
	"time"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/microservices/ordering/service"
)

type OrderingHandler struct {
	service service.OrderingServiceInterface
}

func NewOrderingHandler(svc service.OrderingServiceInterface) *OrderingHandler {
	return &OrderingHandler{service: svc}
}

type itemRequest struct {
	Item string `json:"item"`
}

type sessionView struct {
	SessionID   string              `json:"session_id"`
	Username    string              `json:"username,omitempty"`
	Role        string              `json:"role,omitempty"`
	State       domain.SessionState `json:"state"`
	Cart        []string            `json:"cart"`
	OrderPlaced bool                `json:"order_placed"`
	LastOrder   *domain.Order       `json:"last_order,omitempty"`
	Favorites   []string            `json:"favorites"`
	CreatedAt   time.Time           `json:"created_at"`
}

func toView(s *domain.Session) sessionView {
	return sessionView{
		SessionID:   s.ID,
		Username:    s.Username,
		Role:        s.Role,
		State:       s.State,
		Cart:        nonNil(s.Cart),
		OrderPlaced: s.OrderPlaced,
		LastOrder:   s.LastOrder,
		Favorites:   nonNil(s.Favorites),
		CreatedAt:   s.CreatedAt,
	}
}

func (h *OrderingHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.service.CreateSession(r.Context())
	httpx.WriteJSON(w, http.StatusCreated, toView(s))
}

func (h *OrderingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.GetSession(r.Context(), sessionID(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toView(s))
}

func (h *OrderingHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSession(r.Context(), sessionID(r)); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderingHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	cart, err := h.service.AddToCart(r.Context(), sessionID(r), req.Item)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"cart": nonNil(cart)})
}

func (h *OrderingHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Cart(r.Context(), sessionID(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"cart": nonNil(cart)})
}

func (h *OrderingHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.PlaceOrder(r.Context(), sessionID(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, o)
}

func (h *OrderingHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	fav, favs, err := h.service.ToggleFavorite(r.Context(), sessionID(r), req.Item)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"item": req.Item, "favorite": fav, "favorites": nonNil(favs)})
}

func (h *OrderingHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.service.Favorites(r.Context(), sessionID(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"favorites": nonNil(favs)})
}

func sessionID(r *http.Request) string { return r.PathValue("session_id") }

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
