package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/fintalk/fintalk/internal/db"
	"github.com/fintalk/fintalk/internal/middleware"
	"github.com/fintalk/fintalk/internal/service"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

const postListCachePrefix = "cache:posts:list:"

type postRequest struct {
	Title                string     `json:"title"`
	Content              string     `json:"content"`
	Author               string     `json:"author"`
	Tags                 string     `json:"tags"`
	ImageURL             string     `json:"image_url"`
	Status               string     `json:"status"`
	ScheduledPublishDate *time.Time `json:"scheduled_publish_date"`
}

type postPatchRequest struct {
	Title                *string    `json:"title"`
	Content              *string    `json:"content"`
	Author               *string    `json:"author"`
	Tags                 *string    `json:"tags"`
	ImageURL             *string    `json:"image_url"`
	Status               *string    `json:"status"`
	ScheduledPublishDate *time.Time `json:"scheduled_publish_date"`
	ClearScheduledDate   bool       `json:"clear_scheduled_publish_date"`
}

// ListPosts 获取文章列表
func (a *API) ListPosts(c *gin.Context) {
	page, pageSize := parsePagination(c)

	cacheKey := fmt.Sprintf("%spage=%d:size=%d", postListCachePrefix, page, pageSize)
	if b, ok := a.cache.GetBytes(cacheKey); ok {
		c.Data(http.StatusOK, "application/json", b)
		return
	}

	result, err := a.posts.List(page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	payload := listEnvelope(c, result.Posts, result.Pagination, nil)
	a.cache.SetJSON(cacheKey, payload, time.Hour)
	c.JSON(http.StatusOK, payload)
}

// SearchPosts 按标题或正文搜索文章
func (a *API) SearchPosts(c *gin.Context) {
	page, pageSize := parsePagination(c)

	result, err := a.posts.Search(c.Query("q"), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, listEnvelope(c, result.Posts, result.Pagination, gin.H{"query": result.Query}))
}

// GetPost 获取单篇文章
func (a *API) GetPost(c *gin.Context) {
	id := parseIDParam(c, "id")

	post, err := a.posts.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Best effort counter bump; a failure should not hide the post.
	if err := a.posts.IncrementViewCount(id); err == nil {
		post.ViewCount++
	}

	c.JSON(http.StatusOK, gin.H{
		"post":         post,
		"author_name":  post.DisplayAuthor(),
		"content_html": renderMarkdown(post.Content),
	})
}

// CreatePost 创建新文章
func (a *API) CreatePost(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req, "invalid request payload") {
		return
	}

	user, _ := middleware.CurrentUser(c)

	input := service.PostInput{
		Title:                req.Title,
		Content:              req.Content,
		Author:               req.Author,
		Tags:                 req.Tags,
		ImageURL:             req.ImageURL,
		Status:               req.Status,
		ScheduledPublishDate: req.ScheduledPublishDate,
	}
	if user != nil {
		input.AuthorUserID = &user.ID
		if input.Author == "" {
			input.Author = user.DisplayName
			if input.Author == "" {
				input.Author = user.Username
			}
		}
	}

	post, err := a.posts.Create(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	a.cache.InvalidateByPrefix(postListCachePrefix)
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// UpdatePost 更新文章，仅修改提供的字段
func (a *API) UpdatePost(c *gin.Context) {
	id := parseIDParam(c, "id")

	existing, err := a.posts.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !a.canEdit(c, existing) {
		respondError(c, http.StatusForbidden, "you can only edit your own posts")
		return
	}

	var req postPatchRequest
	if !bindJSON(c, &req, "invalid request payload") {
		return
	}

	post, err := a.posts.Update(id, service.PostPatch{
		Title:                req.Title,
		Content:              req.Content,
		Author:               req.Author,
		Tags:                 req.Tags,
		ImageURL:             req.ImageURL,
		Status:               req.Status,
		ScheduledPublishDate: req.ScheduledPublishDate,
		ClearScheduledDate:   req.ClearScheduledDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	a.cache.InvalidateByPrefix(postListCachePrefix)
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost 删除文章，关联数据随之级联删除
func (a *API) DeletePost(c *gin.Context) {
	id := parseIDParam(c, "id")

	existing, err := a.posts.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !a.canEdit(c, existing) {
		respondError(c, http.StatusForbidden, "you can only delete your own posts")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	a.cache.InvalidateByPrefix(postListCachePrefix)
	c.Status(http.StatusNoContent)
}

// PublishPost 将草稿或定时文章立即发布
func (a *API) PublishPost(c *gin.Context) {
	id := parseIDParam(c, "id")

	existing, err := a.posts.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !a.canEdit(c, existing) {
		respondError(c, http.StatusForbidden, "you can only publish your own posts")
		return
	}

	post, err := a.posts.Publish(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	a.cache.InvalidateByPrefix(postListCachePrefix)
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// canEdit allows the owning author plus moderators and admins. Orphaned
// posts are only editable by moderators and admins.
func (a *API) canEdit(c *gin.Context, post *db.Post) bool {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return false
	}
	if db.RoleRank(user.Role) >= db.RoleRank(db.RoleModerator) {
		return true
	}
	return post.AuthorUserID != nil && *post.AuthorUserID == user.ID
}

func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return ""
	}
	return sanitizer.Sanitize(buf.String())
}
