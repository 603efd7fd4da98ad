package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/fintalk/fintalk/internal/db"
)

func TestFollowAndUnfollowUser(t *testing.T) {
	h, cleanup := setupHandlerTest(t, "follow")
	defer cleanup()

	reader := h.createUser(t, "reader1", db.RoleReader)
	writer := h.createUser(t, "writer1", db.RoleAuthor)
	h.currentUser = reader

	r := h.engine(func(g *gin.RouterGroup) {
		g.POST("/api/users/:id/follow", h.api.FollowUser)
		g.DELETE("/api/users/:id/follow", h.api.UnfollowUser)
		g.GET("/api/users/:id/followers", h.api.ListFollowers)
	})
	path := fmt.Sprintf("/api/users/%d/follow", writer.ID)

	if rr := doJSON(t, r, http.MethodPost, path, nil); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr := doJSON(t, r, http.MethodPost, path, nil); rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate follow, got %d", rr.Code)
	}

	selfPath := fmt.Sprintf("/api/users/%d/follow", reader.ID)
	if rr := doJSON(t, r, http.MethodPost, selfPath, nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self follow, got %d", rr.Code)
	}

	rr := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/users/%d/followers", writer.ID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	payload := decodeBody(t, rr)
	if len(payload["followers"].([]interface{})) != 1 {
		t.Fatalf("expected one follower, got %v", payload["followers"])
	}

	if rr := doJSON(t, r, http.MethodDelete, path, nil); rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if rr := doJSON(t, r, http.MethodDelete, path, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second unfollow, got %d", rr.Code)
	}
}

func TestFollowMissingUser(t *testing.T) {
	h, cleanup := setupHandlerTest(t, "follow-missing")
	defer cleanup()

	h.currentUser = h.createUser(t, "reader1", db.RoleReader)
	r := h.engine(func(g *gin.RouterGroup) {
		g.POST("/api/users/:id/follow", h.api.FollowUser)
	})

	if rr := doJSON(t, r, http.MethodPost, "/api/users/999/follow", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
