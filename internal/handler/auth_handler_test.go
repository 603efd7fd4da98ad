package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/fintalk/fintalk/internal/middleware"
)

// sessionEngine wires real cookie sessions so login state survives across
// requests the way it does in production.
func (h *handlerHarness) sessionEngine() *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("fintalk_session", cookie.NewStore([]byte("test-secret"))))
	r.POST("/api/auth/register", h.api.Register)
	r.POST("/api/auth/login", h.api.Login)
	r.POST("/api/auth/logout", h.api.Logout)
	auth := r.Group("", middleware.AuthRequired(h.gdb))
	auth.GET("/api/me", h.api.Me)
	return r
}

func TestAuthRegisterLoginMe(t *testing.T) {
	h, cleanup := setupHandlerTest(t, "auth")
	defer cleanup()
	r := h.sessionEngine()

	rr := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "newreader",
		"password": "hunter2hunter2",
		"email":    "new@example.com",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "hunter2") {
		t.Fatalf("password leaked in response: %s", rr.Body.String())
	}

	rr = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"username": "newreader",
		"password": "hunter2hunter2",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on login, got %d: %s", rr.Code, rr.Body.String())
	}
	cookieHeader := rr.Header().Get("Set-Cookie")
	if cookieHeader == "" {
		t.Fatal("expected session cookie after login")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Cookie", cookieHeader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on /api/me, got %d: %s", rec.Code, rec.Body.String())
	}
	payload := decodeBody(t, rec)
	user := payload["user"].(map[string]interface{})
	if user["username"] != "newreader" || user["role"] != "reader" {
		t.Fatalf("unexpected session user: %v", user)
	}
}

func TestAuthRegisterRejectsWeakInput(t *testing.T) {
	h, cleanup := setupHandlerTest(t, "auth-weak")
	defer cleanup()
	r := h.sessionEngine()

	rr := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{"username": "ab", "password": "longenough"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short username, got %d", rr.Code)
	}
	rr = doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{"username": "valid", "password": "short"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", rr.Code)
	}
}

func TestAuthRegisterRejectsDuplicateUsername(t *testing.T) {
	h, cleanup := setupHandlerTest(t, "auth-dup")
	defer cleanup()
	r := h.sessionEngine()

	body := gin.H{"username": "taken", "password": "hunter2hunter2"}
	if rr := doJSON(t, r, http.MethodPost, "/api/auth/register", body); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if rr := doJSON(t, r, http.MethodPost, "/api/auth/register", body); rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", rr.Code)
	}
}

func TestAuthLoginRejectsBadPassword(t *testing.T) {
	h, cleanup := setupHandlerTest(t, "auth-bad")
	defer cleanup()
	r := h.sessionEngine()

	doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{"username": "careful", "password": "hunter2hunter2"})

	rr := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"username": "careful", "password": "wrongwrong"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestMeWithoutSessionIsUnauthorized(t *testing.T) {
	h, cleanup := setupHandlerTest(t, "auth-anon")
	defer cleanup()
	r := h.sessionEngine()

	rr := doJSON(t, r, http.MethodGet, "/api/me", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
