package web

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"

	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/repository"
)

func newTestHandler(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	catalog, err := domain.DefaultCatalog()
	require.NoError(t, err)
	cfg := &config.Config{
		Ordering: config.OrderingConfig{ValidateItems: true},
		Auth:     config.AuthConfig{BcryptCost: bcrypt.MinCost},
	}
	return Routes(Deps{
		DB:       db,
		Sessions: repository.NewSessionsMem(),
		Catalog:  catalog,
		Metrics:  metrics.New(),
		Config:   cfg,
	}), mock
}

func call(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestRoutes_OpsEndpoints(t *testing.T) {
	h, _ := newTestHandler(t)

	require.Equal(t, http.StatusOK, call(h, http.MethodGet, "/live", "").Code)
	require.Equal(t, http.StatusOK, call(h, http.MethodGet, "/api/v1/menu", "").Code)

	rec := call(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `restaurant_http_requests_total{code="200",route="GET /api/v1/menu"} 1`)
}

func TestRoutes_LoginAndOrder(t *testing.T) {
	h, mock := newTestHandler(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	getUser := regexp.QuoteMeta(`SELECT username, password, role FROM users WHERE username = $1`)

	mock.ExpectQuery(getUser).WithArgs("alice").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("alice", sqlmock.AnyArg(), domain.RoleUser).WillReturnResult(sqlmock.NewResult(0, 1))
	require.Equal(t, http.StatusCreated,
		call(h, http.MethodPost, "/api/v1/users", `{"username":"alice","password":"secret"}`).Code)

	rec := call(h, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var sess struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	base := "/api/v1/sessions/" + sess.SessionID

	mock.ExpectQuery(getUser).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password", "role"}).AddRow("alice", string(hash), domain.RoleUser))
	require.Equal(t, http.StatusOK,
		call(h, http.MethodPost, base+"/login", `{"username":"alice","password":"secret"}`).Code)

	require.Equal(t, http.StatusOK, call(h, http.MethodPost, base+"/cart", `{"item":"Caesar Salad"}`).Code)
	require.Equal(t, http.StatusCreated, call(h, http.MethodPost, base+"/orders", "").Code)

	rec = call(h, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.Contains(t, rec.Body.String(), `"order_placed":true`)

	require.Equal(t, http.StatusForbidden, call(h, http.MethodGet, base+"/admin/users", "").Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
