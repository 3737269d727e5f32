package handler

import (
	"net/http"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/microservices/auth/service"
)

type AuthHandler struct {
	service service.AuthServiceInterface
}

func NewAuthHandler(svc service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: svc}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionUser struct {
	SessionID string `json:"session_id"`
	Username  string `json:"username,omitempty"`
	Role      string `json:"role,omitempty"`
	LoggedIn  bool   `json:"logged_in"`
}

func toSessionUser(s *domain.Session) sessionUser {
	return sessionUser{SessionID: s.ID, Username: s.Username, Role: s.Role, LoggedIn: s.LoggedIn()}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	u, err := h.service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	s, err := h.service.Login(r.Context(), r.PathValue("session_id"), req.Username, req.Password)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSessionUser(s))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Logout(r.Context(), r.PathValue("session_id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSessionUser(s))
}
