package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintalk/fintalk/internal/middleware"
	"github.com/fintalk/fintalk/internal/service"
)

// SavePost 收藏文章
func (a *API) SavePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	saved, svcErr := a.saved.Save(user.ID, postID)
	if svcErr != nil {
		if svcErr == service.ErrAlreadySaved {
			respondError(c, http.StatusConflict, svcErr.Error())
			return
		}
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"saved": saved})
}

// UnsavePost 取消收藏
func (a *API) UnsavePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.saved.Unsave(user.ID, postID); err != nil {
		if err == service.ErrNotSaved {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSaved 返回当前用户的收藏列表
func (a *API) ListSaved(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	page, pageSize := parsePagination(c)
	result, err := a.saved.List(user.ID, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, listEnvelope(c, result.Items, result.Pagination, nil))
}
