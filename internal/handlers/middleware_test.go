package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

func TestIdentityMiddleware_HeaderCases(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		parseErr error
		wantCode int
		wantMsg  string
	}{
		{"missing header", "", nil, http.StatusUnauthorized, msgMissingAuth},
		{"wrong scheme", "Basic abc", nil, http.StatusUnauthorized, msgMissingAuth},
		{"no token", "Bearer", nil, http.StatusUnauthorized, msgMissingAuth},
		{"blank token", "Bearer   ", nil, http.StatusUnauthorized, msgMissingAuth},
		{"malformed token", "Bearer junk", fmt.Errorf("%w: malformed", service.ErrInvalidToken), http.StatusForbidden, msgInvalidToken},
		{"expired token", "Bearer old", fmt.Errorf("%w: exp", service.ErrTokenExpired), http.StatusForbidden, msgInvalidToken},
		{"valid token", "Bearer good", nil, http.StatusOK, ""},
		{"lowercase scheme", "bearer good", nil, http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := authAs(7, models.RoleUser)
			auth.parseErr = tc.parseErr
			tasks := &mockTasks{listResp: []models.Task{}}
			r := newTestRouter(&service.Service{Authorization: auth, Tasks: tasks})

			hdr := http.Header{}
			if tc.header != "" {
				hdr.Set("Authorization", tc.header)
			}
			w := doJSON(t, r, http.MethodGet, "/api/tasks", "", hdr)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantMsg != "" && decodeMap(t, w)["error"] != tc.wantMsg {
				t.Fatalf("unexpected body %s", w.Body.String())
			}
			if tc.wantCode == http.StatusUnauthorized && auth.lastParseToken != "" {
				t.Fatalf("token must not be parsed when header is unusable")
			}
			if tc.wantCode == http.StatusOK && tasks.lastUserID != 7 {
				t.Fatalf("identity not propagated, lastUserID=%d", tasks.lastUserID)
			}
		})
	}
}

func TestIdentityMiddleware_SetsRequestContext(t *testing.T) {
	h := NewHandler(&service.Service{Authorization: authAs(3, models.RoleAdmin)}, nil)
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var fromCtx models.Identity
	var found bool
	r.GET("/probe", h.identityMiddleware, func(c *gin.Context) {
		fromCtx, found = IdentityFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer t")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent || !found || fromCtx.UserID != 3 || fromCtx.Role != models.RoleAdmin {
		t.Fatalf("identity not in request context: code=%d found=%v id=%+v", w.Code, found, fromCtx)
	}
}

func TestRequireRoles(t *testing.T) {
	t.Run("no identity", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.GET("/admin", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("user on admin route", func(t *testing.T) {
		tasks := &mockTasks{}
		r := newTestRouter(&service.Service{Authorization: authAs(1, models.RoleUser), Tasks: tasks})
		w := doJSON(t, r, http.MethodGet, "/api/admin/all-tasks", "", authHeader("t"))
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
		if decodeMap(t, w)["error"] != msgForbiddenRole {
			t.Fatalf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("admin", func(t *testing.T) {
		tasks := &mockTasks{allResp: []models.OwnedTask{{
			Task:       models.Task{ID: 1, Title: "t", UserID: 2},
			OwnerEmail: "bob@example.com",
			OwnerName:  "Bob",
		}}}
		r := newTestRouter(&service.Service{Authorization: authAs(1, models.RoleAdmin), Tasks: tasks})
		w := doJSON(t, r, http.MethodGet, "/api/admin/all-tasks", "", authHeader("t"))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
		}
		if !bytesContains(w.Body.Bytes(), `"email":"bob@example.com"`) {
			t.Fatalf("owner email missing: %s", w.Body.String())
		}
	})

	t.Run("admin listing failure", func(t *testing.T) {
		tasks := &mockTasks{allErr: errors.New("boom")}
		r := newTestRouter(&service.Service{Authorization: authAs(1, models.RoleAdmin), Tasks: tasks})
		w := doJSON(t, r, http.MethodGet, "/api/admin/all-tasks", "", authHeader("t"))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}
