package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/fintalk/fintalk/internal/db"
)

func flagRoutes(h *handlerHarness) *gin.Engine {
	return h.engine(func(g *gin.RouterGroup) {
		g.POST("/api/posts/:id/flags", h.api.FlagPost)
		g.GET("/api/flags", h.api.ListFlags)
		g.POST("/api/flags/:id/resolve", h.api.ResolveFlag)
		g.POST("/api/flags/:id/dismiss", h.api.DismissFlag)
	})
}

func TestFlagPostLifecycle(t *testing.T) {
	h, cleanup := setupHandlerTest(t, "flag")
	defer cleanup()

	reader := h.createUser(t, "reader1", db.RoleReader)
	moderator := h.createUser(t, "mod1", db.RoleModerator)
	post := h.createPost(t, "Questionable Post", nil)
	r := flagRoutes(h)

	h.currentUser = reader
	path := fmt.Sprintf("/api/posts/%d/flags", post.ID)
	rr := doJSON(t, r, http.MethodPost, path, gin.H{"reason": "spam"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	flag := decodeBody(t, rr)["flag"].(map[string]interface{})
	flagID := uint(flag["id"].(float64))

	if rr := doJSON(t, r, http.MethodPost, path, gin.H{"reason": "still spam"}); rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate flag, got %d", rr.Code)
	}
	// 空理由在重复举报检查之前就被校验
	if rr := doJSON(t, r, http.MethodPost, path, gin.H{"reason": "  "}); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank reason, got %d", rr.Code)
	}

	h.currentUser = moderator
	rr = doJSON(t, r, http.MethodGet, "/api/flags", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if decodeBody(t, rr)["count"].(float64) != 1 {
		t.Fatalf("expected one pending flag, got %s", rr.Body.String())
	}

	rr = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/flags/%d/resolve", flagID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on resolve, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/flags/%d/dismiss", flagID), nil); rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 on double review, got %d", rr.Code)
	}
}
