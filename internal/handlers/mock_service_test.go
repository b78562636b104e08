package handlers

import (
	"context"
	"net/http"
	"sync"

	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	signInToken   service.Token
	signInErr     error
	parseIdentity models.Identity
	parseErr      error

	lastSignUp         service.SignUpInput
	lastSignInEmail    string
	lastSignInPassword string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, in service.SignUpInput) (int, error) {
	m.lastSignUp = in
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) SignIn(_ context.Context, email, password string) (service.Token, error) {
	m.lastSignInEmail = email
	m.lastSignInPassword = password
	return m.signInToken, m.signInErr
}

func (m *mockAuth) ParseToken(token string) (models.Identity, error) {
	m.lastParseToken = token
	return m.parseIdentity, m.parseErr
}

type mockTasks struct {
	mu sync.Mutex

	listResp   []models.Task
	listErr    error
	getResp    models.Task
	getErr     error
	createResp models.Task
	createErr  error
	updateResp models.Task
	updateErr  error
	deleteErr  error
	allResp    []models.OwnedTask
	allErr     error

	listCalls  int
	lastUserID int
	lastTaskID int
	lastInput  service.TaskInput
	lastUpdate models.TaskUpdate
}

func (m *mockTasks) List(_ context.Context, userID int) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	m.lastUserID = userID
	return m.listResp, m.listErr
}

func (m *mockTasks) Get(_ context.Context, userID, taskID int) (models.Task, error) {
	m.lastUserID, m.lastTaskID = userID, taskID
	return m.getResp, m.getErr
}

func (m *mockTasks) Create(_ context.Context, userID int, in service.TaskInput) (models.Task, error) {
	m.lastUserID = userID
	m.lastInput = in
	return m.createResp, m.createErr
}

func (m *mockTasks) Update(_ context.Context, userID, taskID int, upd models.TaskUpdate) (models.Task, error) {
	m.lastUserID, m.lastTaskID = userID, taskID
	m.lastUpdate = upd
	return m.updateResp, m.updateErr
}

func (m *mockTasks) Delete(_ context.Context, userID, taskID int) error {
	m.lastUserID, m.lastTaskID = userID, taskID
	return m.deleteErr
}

func (m *mockTasks) ListAll(_ context.Context) ([]models.OwnedTask, error) {
	return m.allResp, m.allErr
}

func (m *mockTasks) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

type mockUsers struct {
	profile    models.Profile
	profileErr error
	setRoleErr error

	lastProfileID int
}

func (m *mockUsers) Profile(_ context.Context, userID int) (models.Profile, error) {
	m.lastProfileID = userID
	return m.profile, m.profileErr
}

func (m *mockUsers) SetRole(_ context.Context, _, _ string) error {
	return m.setRoleErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	h := NewHandler(s, nil, opts...)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// authAs returns an auth mock whose every token resolves to the given user.
func authAs(userID int, role string) *mockAuth {
	return &mockAuth{parseIdentity: models.Identity{
		UserID: userID,
		Email:  "user@example.com",
		Name:   "User",
		Role:   role,
	}}
}
