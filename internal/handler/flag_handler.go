package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintalk/fintalk/internal/middleware"
	"github.com/fintalk/fintalk/internal/service"
)

type flagRequest struct {
	Reason string `json:"reason"`
}

// FlagPost 举报文章内容
func (a *API) FlagPost(c *gin.Context) {
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

	var req flagRequest
	if !bindJSON(c, &req, "invalid request payload") {
		return
	}

	flag, svcErr := a.flags.Flag(postID, user.ID, req.Reason)
	if svcErr != nil {
		if svcErr == service.ErrDuplicateFlag {
			respondError(c, http.StatusConflict, svcErr.Error())
			return
		}
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"flag": flag})
}

// ListFlags 返回待处理的举报队列（版主及以上）
func (a *API) ListFlags(c *gin.Context) {
	page, pageSize := parsePagination(c)

	result, err := a.flags.ListPending(page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, listEnvelope(c, result.Flags, result.Pagination, nil))
}

// ResolveFlag 标记举报已处理
func (a *API) ResolveFlag(c *gin.Context) {
	a.reviewFlag(c, true)
}

// DismissFlag 驳回举报
func (a *API) DismissFlag(c *gin.Context) {
	a.reviewFlag(c, false)
}

func (a *API) reviewFlag(c *gin.Context, resolve bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	flagID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var flag interface{}
	var svcErr error
	if resolve {
		flag, svcErr = a.flags.Resolve(flagID, user.ID)
	} else {
		flag, svcErr = a.flags.Dismiss(flagID, user.ID)
	}
	if svcErr != nil {
		if svcErr == service.ErrFlagAlreadyReviewed {
			respondError(c, http.StatusConflict, svcErr.Error())
			return
		}
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"flag": flag})
}
