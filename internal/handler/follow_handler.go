package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintalk/fintalk/internal/middleware"
	"github.com/fintalk/fintalk/internal/service"
)

// FollowUser 关注指定用户
func (a *API) FollowUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	followeeID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.follows.Follow(user.ID, followeeID); err != nil {
		switch err {
		case service.ErrSelfFollow:
			respondError(c, http.StatusBadRequest, err.Error())
		case service.ErrAlreadyFollowing:
			respondError(c, http.StatusConflict, err.Error())
		default:
			respondServiceError(c, err)
		}
		return
	}
	c.Status(http.StatusCreated)
}

// UnfollowUser 取消关注
func (a *API) UnfollowUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	followeeID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.follows.Unfollow(user.ID, followeeID); err != nil {
		if err == service.ErrNotFollowing {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListFollowers 列出关注该用户的人
func (a *API) ListFollowers(c *gin.Context) {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	users, svcErr := a.follows.Followers(userID)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"followers": users})
}

// ListFollowing 列出该用户关注的人
func (a *API) ListFollowing(c *gin.Context) {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	users, svcErr := a.follows.Following(userID)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": users})
}
