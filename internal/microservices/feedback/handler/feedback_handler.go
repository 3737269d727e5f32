package handler

import (
	"net/http"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/microservices/feedback/service"
	"restaurant-ordering/internal/repository"
)

type FeedbackHandler struct {
	service service.FeedbackServiceInterface
}

func NewFeedbackHandler(svc service.FeedbackServiceInterface) *FeedbackHandler {
	return &FeedbackHandler{service: svc}
}

type feedbackRequest struct {
	Feedback string `json:"feedback"`
	Rating   int    `json:"rating"`
}

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	f, err := h.service.Submit(r.Context(), r.PathValue("session_id"), req.Feedback, req.Rating)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, f)
}

func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	limit, offset := repository.ClampPage(
		httpx.AtoiDefault(r.URL.Query().Get("limit"), repository.DefaultPageSize),
		httpx.AtoiDefault(r.URL.Query().Get("offset"), 0),
	)
	list, err := h.service.ListFeedback(r.Context(), r.PathValue("session_id"), limit, offset)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"feedback": list, "limit": limit, "offset": offset})
}

func (h *FeedbackHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), r.PathValue("session_id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}
