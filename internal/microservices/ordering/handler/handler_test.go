package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/microservices/ordering/service"
	"restaurant-ordering/internal/repository"
)

func newTestMux(t *testing.T, step time.Duration) *http.ServeMux {
	t.Helper()
	catalog, err := domain.DefaultCatalog()
	require.NoError(t, err)
	svc := service.NewOrderingService(repository.NewSessionsMem(), catalog, nil, metrics.New(),
		logger.FromZap(zap.NewNop(), "ordering-test"), service.Options{ValidateItems: true})

	mux := http.NewServeMux()
	Mount(mux, &Handler{
		OrderingHandler: NewOrderingHandler(svc),
		TrackerHandler:  NewTrackerHandler(svc, step),
	})
	return mux
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func newSession(t *testing.T, mux http.Handler) string {
	t.Helper()
	rec := do(t, mux, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	v := decode[sessionView](t, rec)
	require.NotEmpty(t, v.SessionID)
	assert.Equal(t, domain.StateBrowsing, v.State)
	assert.Equal(t, []string{}, v.Cart)
	return v.SessionID
}

func TestOrderingHandler_FullFlow(t *testing.T) {
	mux := newTestMux(t, 0)
	id := newSession(t, mux)
	base := "/api/v1/sessions/" + id

	rec := do(t, mux, http.MethodGet, base+"/order/timeline", "")
	require.Equal(t, http.StatusOK, rec.Code)
	noOrder := decode[map[string]any](t, rec)
	assert.Equal(t, false, noOrder["order_placed"])
	assert.Equal(t, noOrderMessage, noOrder["message"])
	assert.Empty(t, noOrder["statuses"])

	for _, item := range []string{"Caesar Salad", "Grilled Chicken"} {
		rec = do(t, mux, http.MethodPost, base+"/cart", `{"item":"`+item+`"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec = do(t, mux, http.MethodGet, base+"/cart", "")
	assert.Equal(t, []string{"Caesar Salad", "Grilled Chicken"}, decode[map[string][]string](t, rec)["cart"])

	rec = do(t, mux, http.MethodPost, base+"/orders", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	order := decode[domain.Order](t, rec)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, []string{"Caesar Salad", "Grilled Chicken"}, order.Items)

	rec = do(t, mux, http.MethodGet, base, "")
	view := decode[sessionView](t, rec)
	assert.Equal(t, []string{}, view.Cart)
	assert.True(t, view.OrderPlaced)
	assert.Equal(t, domain.StatePlaced, view.State)

	rec = do(t, mux, http.MethodGet, base+"/order/status", "")
	status := decode[map[string]any](t, rec)
	assert.Equal(t, order.ID, status["order_id"])

	rec = do(t, mux, http.MethodGet, base+"/order/timeline", "")
	timeline := decode[struct {
		OrderPlaced bool     `json:"order_placed"`
		Statuses    []string `json:"statuses"`
	}](t, rec)
	assert.True(t, timeline.OrderPlaced)
	assert.Equal(t, []string{
		"Order Received", "Preparing Your Order", "Cooking In Progress",
		"Order Packed", "Out for Delivery", "Delivered",
	}, timeline.Statuses)
}

func TestOrderingHandler_Errors(t *testing.T) {
	mux := newTestMux(t, 0)
	id := newSession(t, mux)
	base := "/api/v1/sessions/" + id

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
		typ    string
	}{
		{"empty cart", http.MethodPost, base + "/orders", "", http.StatusConflict, "empty_cart"},
		{"unknown item", http.MethodPost, base + "/cart", `{"item":"Unicorn Steak"}`, http.StatusBadRequest, "unknown_item"},
		{"blank item", http.MethodPost, base + "/cart", `{"item":" "}`, http.StatusBadRequest, "empty_item"},
		{"bad json", http.MethodPost, base + "/cart", `{"item":`, http.StatusBadRequest, "bad_json"},
		{"unknown session", http.MethodGet, "/api/v1/sessions/nope/cart", "", http.StatusNotFound, "session_not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, tt.method, tt.path, tt.body)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.Equal(t, tt.typ, decode[httpx.Problem](t, rec).Type)
		})
	}

	rec := do(t, mux, http.MethodGet, base, "")
	assert.False(t, decode[sessionView](t, rec).OrderPlaced)
}

func TestOrderingHandler_Favorites(t *testing.T) {
	mux := newTestMux(t, 0)
	base := "/api/v1/sessions/" + newSession(t, mux)

	rec := do(t, mux, http.MethodPost, base+"/favorites", `{"item":"Falafel"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["favorite"])

	rec = do(t, mux, http.MethodGet, base+"/favorites", "")
	assert.Equal(t, []string{"Falafel"}, decode[map[string][]string](t, rec)["favorites"])
}

func TestOrderingHandler_DeleteSession(t *testing.T) {
	mux := newTestMux(t, 0)
	base := "/api/v1/sessions/" + newSession(t, mux)

	require.Equal(t, http.StatusNoContent, do(t, mux, http.MethodDelete, base, "").Code)
	require.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, base, "").Code)
}

func TestTrackerHandler_Stream(t *testing.T) {
	mux := newTestMux(t, 0)
	base := "/api/v1/sessions/" + newSession(t, mux)

	rec := do(t, mux, http.MethodGet, base+"/order/stream", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["order_placed"])

	require.Equal(t, http.StatusOK, do(t, mux, http.MethodPost, base+"/cart", `{"item":"Green Tea"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, base+"/orders", "").Code)

	rec = do(t, mux, http.MethodGet, base+"/order/stream", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))

	var got []domain.OrderStatus
	sc := bufio.NewScanner(bytes.NewReader(rec.Body.Bytes()))
	for sc.Scan() {
		var ev streamEvent
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev))
		assert.Equal(t, len(got)+1, ev.Step)
		assert.Equal(t, 6, ev.Of)
		got = append(got, ev.Status)
	}
	assert.Equal(t, domain.StatusSequence(), got)
}

func TestTrackerHandler_StreamStopsOnDisconnect(t *testing.T) {
	mux := newTestMux(t, time.Hour)
	base := "/api/v1/sessions/" + newSession(t, mux)
	require.Equal(t, http.StatusOK, do(t, mux, http.MethodPost, base+"/cart", `{"item":"Green Tea"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, base+"/orders", "").Code)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, base+"/order/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		mux.ServeHTTP(rec, req)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after the client went away")
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 1)
}

func TestTrackerHandler_StreamOutlastsWriteTimeout(t *testing.T) {
	m := metrics.New()
	mux := newTestMux(t, 40*time.Millisecond)
	srv := httptest.NewUnstartedServer(m.Instrument(mux))
	srv.Config.WriteTimeout = 100 * time.Millisecond
	srv.Start()
	defer srv.Close()

	base := "/api/v1/sessions/" + newSession(t, mux)
	require.Equal(t, http.StatusOK, do(t, mux, http.MethodPost, base+"/cart", `{"item":"Green Tea"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, base+"/orders", "").Code)

	resp, err := srv.Client().Get(srv.URL + base + "/order/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []domain.OrderStatus
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		var ev streamEvent
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev))
		got = append(got, ev.Status)
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, domain.StatusSequence(), got)
}
