package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fintalk/fintalk/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Validation failures and not-found keep their distinct shapes; everything
// else is surfaced opaquely.
func respondServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}

	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		respondError(c, http.StatusNotFound, nf.Error())
		return
	}

	var serr *service.ServiceError
	if errors.As(err, &serr) {
		respondError(c, http.StatusInternalServerError, serr.Message)
		return
	}

	respondError(c, http.StatusInternalServerError, "internal server error")
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// parseIDParam keeps malformed and negative ids flowing into the service
// layer, where they surface as caller errors distinct from not-found.
func parseIDParam(c *gin.Context, key string) int64 {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// parsePagination reads page/page_size with defaults; range enforcement is
// the service's job.
func parsePagination(c *gin.Context) (int, int) {
	page := 1
	pageSize := service.DefaultPageSize
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			page = v
		}
	}
	if raw := strings.TrimSpace(c.Query("page_size")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			pageSize = v
		}
	}
	return page, pageSize
}

// listEnvelope builds the list/search response shape with server-generated
// page links, null when the page does not exist.
func listEnvelope(c *gin.Context, results interface{}, p service.Pagination, extra gin.H) gin.H {
	payload := gin.H{
		"results":      results,
		"count":        p.TotalPosts,
		"total_pages":  p.TotalPages,
		"current_page": p.CurrentPage,
		"page_size":    p.PageSize,
		"next":         pageLink(c, p, p.CurrentPage+1, p.HasNext),
		"previous":     pageLink(c, p, p.CurrentPage-1, p.HasPrevious),
	}
	for key, value := range extra {
		payload[key] = value
	}
	return payload
}

func pageLink(c *gin.Context, p service.Pagination, page int, exists bool) interface{} {
	if !exists {
		return nil
	}
	query := c.Request.URL.Query()
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(p.PageSize))
	return c.Request.URL.Path + "?" + query.Encode()
}
