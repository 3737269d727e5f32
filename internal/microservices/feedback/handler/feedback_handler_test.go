package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/microservices/feedback/service"
	"restaurant-ordering/internal/repository"
)

func do(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestFeedbackHandler(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sessions := repository.NewSessionsMem()
	svc := service.NewFeedbackService(repository.NewFeedbackRepository(db), repository.NewUserRepository(db),
		sessions, metrics.New(), logger.FromZap(zap.NewNop(), "feedback-test"))
	mux := http.NewServeMux()
	Mount(mux, NewFeedbackHandler(svc))

	login := func(username, role string) string {
		s := sessions.Create()
		require.NoError(t, sessions.Update(s.ID, func(s *domain.Session) error {
			s.Login(username, role)
			return nil
		}))
		return "/api/v1/sessions/" + s.ID
	}
	alice := login("alice", domain.RoleUser)
	admin := login("admin", domain.RoleAdmin)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO feedback`)).
		WithArgs("alice", "Tasty", 5, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	rec := do(mux, http.MethodPost, alice+"/feedback", `{"feedback":"Tasty","rating":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"feedback":"Tasty"`)

	rec = do(mux, http.MethodPost, alice+"/feedback", `{"feedback":"Tasty","rating":9}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(mux, http.MethodGet, alice+"/admin/feedback", "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT 2 OFFSET 1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "feedback", "rating", "created_at"}).
			AddRow(1, "alice", "Tasty", 5, time.Now()))
	rec = do(mux, http.MethodGet, admin+"/admin/feedback?limit=2&offset=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.Contains(t, rec.Body.String(), `"limit":2`)

	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT 50 OFFSET 0`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "feedback", "rating", "created_at"}))
	rec = do(mux, http.MethodGet, admin+"/admin/feedback?limit=abc&offset=-4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"feedback":[]`)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username, role FROM users`)).
		WillReturnRows(sqlmock.NewRows([]string{"username", "role"}).AddRow("admin", "admin"))
	rec = do(mux, http.MethodGet, admin+"/admin/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	anon := "/api/v1/sessions/" + sessions.Create().ID
	rec = do(mux, http.MethodPost, anon+"/feedback", `{"feedback":"hi","rating":3}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	require.NoError(t, mock.ExpectationsWereMet())
}
