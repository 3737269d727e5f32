package httpx

import (
	"errors"
	"net/http"

	"restaurant-ordering/internal/domain"
)

var errorTable = []struct {
	err  error
	code int
	typ  string
}{
	{domain.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
	{domain.ErrUnknownCategory, http.StatusNotFound, "unknown_category"},
	{domain.ErrUnknownPreference, http.StatusNotFound, "unknown_preference"},
	{domain.ErrEmptyCart, http.StatusConflict, "empty_cart"},
	{domain.ErrNoOrder, http.StatusConflict, "no_order"},
	{domain.ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{domain.ErrEmptyItem, http.StatusBadRequest, "empty_item"},
	{domain.ErrUnknownItem, http.StatusBadRequest, "unknown_item"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{domain.ErrNotLoggedIn, http.StatusUnauthorized, "not_logged_in"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrPublish, http.StatusServiceUnavailable, "broker_unavailable"},
}

// WriteError maps domain errors onto Problem responses. Anything unknown is
// a 500.
func WriteError(w http.ResponseWriter, err error) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			WriteProblem(w, e.code, e.typ, err.Error())
			return
		}
	}
	WriteProblem(w, http.StatusInternalServerError, "internal_error", err.Error())
}
