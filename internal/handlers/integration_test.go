package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
	"task_tracker/internal/repository/db"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// app is the whole stack on a throwaway SQLite file.
type app struct {
	router   *gin.Engine
	services *service.Service
	now      time.Time
}

func newApp(t *testing.T) *app {
	t.Helper()
	cfg := db.Config{Driver: db.DriverSQLite, Path: filepath.Join(t.TempDir(), "api.db")}
	_, err := db.Migrate(cfg, db.Up)
	require.NoError(t, err)
	conn, err := db.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	a := &app{now: time.Now()}
	tokens, err := service.NewTokenManager("integration-secret", time.Hour, "task_tracker",
		service.WithClock(func() time.Time { return a.now }))
	require.NoError(t, err)
	hasher, err := service.NewPasswordHasher(4)
	require.NoError(t, err)

	a.services = service.NewService(repository.NewRepository(conn, repository.DialectSQLite), tokens, hasher)
	a.router = newTestRouter(a.services)
	return a
}

func (a *app) register(t *testing.T, name, email, password string) int {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q,"password":%q}`, name, email, password)
	w := doJSON(t, a.router, http.MethodPost, "/api/register", body, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return int(decodeMap(t, w)["id"].(float64))
}

func (a *app) login(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	w := doJSON(t, a.router, http.MethodPost, "/api/login", body, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeMap(t, w)["token"].(string)
}

func (a *app) createTask(t *testing.T, token, title string) models.Task {
	t.Helper()
	w := doJSON(t, a.router, http.MethodPost, "/api/tasks", fmt.Sprintf(`{"title":%q}`, title), authHeader(token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var task models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func TestAPI_RegisterLoginAndClaims(t *testing.T) {
	a := newApp(t)
	id := a.register(t, "Alice", "Alice@Example.com", "s3cr3t")

	token := a.login(t, "alice@example.com", "s3cr3t")
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims["email"])
	assert.Equal(t, "Alice", claims["name"])
	assert.Equal(t, models.RoleUser, claims["role"])
	assert.EqualValues(t, id, claims["userId"])

	w := doJSON(t, a.router, http.MethodPost, "/api/register", `{"name":"A2","email":"ALICE@example.com","password":"x"}`, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, a.router, http.MethodPost, "/api/login", `{"email":"alice@example.com","password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_TaskLifecycleAndOwnership(t *testing.T) {
	a := newApp(t)
	a.register(t, "Alice", "alice@example.com", "pw-alice")
	a.register(t, "Bob", "bob@example.com", "pw-bob")
	alice := a.login(t, "alice@example.com", "pw-alice")
	bob := a.login(t, "bob@example.com", "pw-bob")

	task := a.createTask(t, alice, "  Write report  ")
	assert.Equal(t, "Write report", task.Title)
	assert.Nil(t, task.Description)
	assert.False(t, task.Completed)

	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	// Bob can neither see nor touch Alice's task.
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := doJSON(t, a.router, method, path, "", authHeader(bob))
		assert.Equal(t, http.StatusNotFound, w.Code, method)
	}
	w := doJSON(t, a.router, http.MethodPatch, path, `{"completed":true}`, authHeader(bob))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, a.router, http.MethodGet, "/api/tasks", "", authHeader(bob))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	// Partial update keeps the untouched fields.
	w = doJSON(t, a.router, http.MethodPatch, path, `{"description":"Due Friday"}`, authHeader(alice))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = doJSON(t, a.router, http.MethodPatch, path, `{"completed":true}`, authHeader(alice))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Write report", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Due Friday", *updated.Description)
	assert.True(t, updated.Completed)

	w = doJSON(t, a.router, http.MethodGet, "/api/user/me", "", authHeader(alice))
	require.Equal(t, http.StatusOK, w.Code)
	var profile models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "alice@example.com", profile.User.Email)
	assert.Len(t, profile.Tasks, 1)
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(t, a.router, http.MethodDelete, path, "", authHeader(alice))
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, a.router, http.MethodGet, path, "", authHeader(alice))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_ExpiredToken(t *testing.T) {
	a := newApp(t)
	a.register(t, "Alice", "alice@example.com", "pw")
	token := a.login(t, "alice@example.com", "pw")

	a.now = a.now.Add(2 * time.Hour)
	w := doJSON(t, a.router, http.MethodGet, "/api/tasks", "", authHeader(token))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, msgInvalidToken, decodeMap(t, w)["error"])
}

func TestAPI_AdminListing(t *testing.T) {
	a := newApp(t)
	a.register(t, "Alice", "alice@example.com", "pw-alice")
	a.register(t, "Root", "root@example.com", "pw-root")
	alice := a.login(t, "alice@example.com", "pw-alice")
	a.createTask(t, alice, "alice task")

	user := a.login(t, "root@example.com", "pw-root")
	w := doJSON(t, a.router, http.MethodGet, "/api/admin/all-tasks", "", authHeader(user))
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, a.services.Users.SetRole(context.Background(), "root@example.com", models.RoleAdmin))

	// The role is read from the token, so a fresh login is required.
	w = doJSON(t, a.router, http.MethodGet, "/api/admin/all-tasks", "", authHeader(user))
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := a.login(t, "root@example.com", "pw-root")
	w = doJSON(t, a.router, http.MethodGet, "/api/admin/all-tasks", "", authHeader(admin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var all []models.OwnedTask
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 1)
	assert.Equal(t, "alice@example.com", all[0].OwnerEmail)
	assert.Equal(t, "alice task", all[0].Title)
	assert.False(t, strings.Contains(w.Body.String(), "password"))
}
