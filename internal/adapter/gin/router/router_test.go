package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"user-api/internal/adapter/db/postgres"
	"user-api/internal/adapter/gin/handler"
	"user-api/internal/usecase/user"
	apperrors "user-api/pkg/errors"
)

// setupTestServer wires the full HTTP stack on an in-memory SQLite store.
func setupTestServer(t *testing.T, checks map[string]HealthCheck) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&postgres.UserSchema{}))

	mapper := user.NewMapper()
	svc := user.New(postgres.NewUserRepoPG(db, log), mapper, log)
	h := handler.NewUserHandler(svc, mapper, "/user", log)

	return SetupRouter(h, nil, Config{BasePath: "/user", ServiceName: "user-api", Checks: checks}, log)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func standardError(t *testing.T, w *httptest.ResponseRecorder) apperrors.StandardError {
	var body apperrors.StandardError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestUserResource_EndToEnd(t *testing.T) {
	r := setupTestServer(t, nil)

	w := do(r, http.MethodGet, "/user", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(r, http.MethodPost, "/user", `{"name":"Valdir","email":"valdir@mail.com","password":"123"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "http://example.com/user/1", w.Header().Get("Location"))
	assert.Empty(t, w.Body.String())

	w = do(r, http.MethodPost, "/user", `{"name":"Ana","email":"ana@mail.com","password":"456"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "http://example.com/user/2", w.Header().Get("Location"))

	w = do(r, http.MethodGet, "/user/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Valdir","email":"valdir@mail.com","password":"123"}`, w.Body.String())

	w = do(r, http.MethodGet, "/user/99", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	body := standardError(t, w)
	assert.Equal(t, 404, body.Status)
	assert.Equal(t, "Object not found", body.Error)
	assert.Equal(t, "/user/99", body.Path)

	w = do(r, http.MethodPost, "/user", `{"name":"Copy","email":"valdir@mail.com","password":"x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body = standardError(t, w)
	assert.Equal(t, "Email already registered in the system", body.Error)
	assert.Equal(t, "/user", body.Path)

	w = do(r, http.MethodPut, "/user/2", `{"id":1,"name":"Ana Maria","email":"ana@mail.com","password":"456"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":2,"name":"Ana Maria","email":"ana@mail.com","password":"456"}`, w.Body.String())

	w = do(r, http.MethodPut, "/user/2", `{"name":"Ana Maria","email":"valdir@mail.com","password":"456"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.MsgEmailExists, standardError(t, w).Error)

	w = do(r, http.MethodPut, "/user/99", `{"name":"Ghost","email":"ghost@mail.com"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/user/1", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodDelete, "/user/1", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/user", "")
	require.Equal(t, http.StatusOK, w.Code)
	var users []user.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, int64(2), users[0].ID)
}

func TestUserResource_EmailRequired(t *testing.T) {
	r := setupTestServer(t, nil)

	w := do(r, http.MethodPost, "/user", `{"name":"No Email"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, standardError(t, w).Error, "Email is required")
}

func TestUserResource_BadID(t *testing.T) {
	r := setupTestServer(t, nil)

	w := do(r, http.MethodGet, "/user/abc", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "/user/abc", standardError(t, w).Path)
}

func TestUserResource_RequestIDHeader(t *testing.T) {
	r := setupTestServer(t, nil)

	w := do(r, http.MethodGet, "/user", "")

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		r := setupTestServer(t, map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
		})

		w := do(r, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy","service":"user-api","dependencies":{"database":"up"}}`, w.Body.String())
	})

	t.Run("dependency down", func(t *testing.T) {
		r := setupTestServer(t, map[string]HealthCheck{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})

		w := do(r, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "unhealthy")
	})
}

func TestOpenAPIAndSwagger(t *testing.T) {
	r := setupTestServer(t, nil)

	w := do(r, http.MethodGet, "/openapi.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/user/{id}")

	w = do(r, http.MethodGet, "/swagger/index.html", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger")
}
