package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leaveform/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRegistryTest(t *testing.T) (*gin.Engine, redismock.ClientMock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	rdb, redisMock := redismock.NewClientMock()

	cfg, err := config.FromEnv(func(string) string { return "" })
	assert.NoError(t, err)
	cfg.Submission.Timeout = time.Second

	r := gin.New()
	registerModules(r, cfg, gormDB, rdb)
	return r, redisMock
}

func TestRegisterModules(t *testing.T) {
	r, _ := setupRegistryTest(t)

	routes := map[string]bool{}
	for _, ri := range r.Routes() {
		routes[ri.Method+" "+ri.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"POST /api/v1/leave-forms",
		"GET /api/v1/leave-forms/:id",
		"PATCH /api/v1/leave-forms/:id",
		"POST /api/v1/leave-forms/:id/submit",
		"GET /api/v1/leave-forms/:id/submissions",
		"GET /api/v1/leave-form-submissions",
	} {
		assert.True(t, routes[want], want)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/leave-forms/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/leave-requests", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"NOT_FOUND"`)
}

func TestHealthCheck(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		r, redisMock := setupRegistryTest(t)
		redisMock.ExpectPing().SetVal("PONG")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("redis down", func(t *testing.T) {
		r, redisMock := setupRegistryTest(t)
		redisMock.ExpectPing().SetErr(errors.New("dial tcp: connection refused"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"SERVICE_UNAVAILABLE"`)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}
