package service

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fintalk/fintalk/internal/db"
)

// Pagination bounds for list and search.
const (
	// DefaultPageSize applies when the caller does not ask for a size.
	DefaultPageSize = 10
	maxPageSize     = 100
)

// PostPublishedNotifier is told whenever a post transitions to published,
// whether through the explicit operation or the scheduled sweep.
type PostPublishedNotifier interface {
	PostPublished(post *db.Post)
}

// PostService wraps post related database operations. It is the sole entry
// point for post mutations used by the HTTP layer and the publish sweep.
type PostService struct {
	db       *gorm.DB
	log      *zap.Logger
	notifier PostPublishedNotifier
}

// PostInput represents fields accepted when creating a post.
type PostInput struct {
	Title                string
	Content              string
	Author               string
	AuthorUserID         *uint
	Tags                 string
	ImageURL             string
	Status               string
	ScheduledPublishDate *time.Time
}

// PostPatch carries a partial update. A nil field leaves the stored value
// untouched; a set field replaces it and is re-validated against the merged
// post. ClearScheduledDate distinguishes "drop the date" from "not given".
type PostPatch struct {
	Title                *string
	Content              *string
	Author               *string
	AuthorUserID         *uint
	Tags                 *string
	ImageURL             *string
	Status               *string
	ScheduledPublishDate *time.Time
	ClearScheduledDate   bool
}

// Pagination describes the position of a page inside the full result set.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalPosts  int64 `json:"total_posts"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// PostListResult aggregates one page of posts and its pagination metadata.
type PostListResult struct {
	Posts      []db.Post
	Pagination Pagination
}

// PostSearchResult is a PostListResult plus the query that produced it.
type PostSearchResult struct {
	Posts      []db.Post
	Query      string
	Pagination Pagination
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB, log *zap.Logger) *PostService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostService{db: gdb, log: log}
}

// SetNotifier wires the collaborator told about publish transitions.
func (s *PostService) SetNotifier(n PostPublishedNotifier) {
	s.notifier = n
}

// Create validates and persists a new post. Status defaults to draft.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = db.StatusDraft
	}

	post := db.Post{
		Title:                strings.TrimSpace(input.Title),
		Content:              strings.TrimSpace(input.Content),
		Author:               strings.TrimSpace(input.Author),
		AuthorUserID:         input.AuthorUserID,
		Tags:                 normalizeTags(input.Tags),
		ImageURL:             strings.TrimSpace(input.ImageURL),
		Status:               status,
		ScheduledPublishDate: input.ScheduledPublishDate,
	}

	if verr := validatePost(&post, time.Now()); verr != nil {
		s.log.Warn("post validation failed", zap.Any("fields", verr.Fields))
		return nil, verr
	}

	if err := s.db.Create(&post).Error; err != nil {
		s.log.Error("create post failed", zap.Error(err))
		return nil, WrapServiceError("database constraint violation", err)
	}

	post.PopulateDerivedFields()
	return &post, nil
}

// GetByID fetches a post by id. Non-positive ids are a caller error and
// surface as ServiceError, never as not-found.
func (s *PostService) GetByID(id int64) (*db.Post, error) {
	if id < 1 {
		return nil, NewServiceError("post id must be a positive integer")
	}

	var post db.Post
	if err := s.db.Preload("AuthorUser").First(&post, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("post not found", zap.Int64("post_id", id))
			return nil, NewPostNotFound(uint(id))
		}
		s.log.Error("load post failed", zap.Int64("post_id", id), zap.Error(err))
		return nil, WrapServiceError("failed to load post", err)
	}

	post.PopulateDerivedFields()
	return &post, nil
}

// Update merges the provided fields onto the stored post and re-validates
// the result. Fields absent from the patch are left untouched.
func (s *PostService) Update(id int64, patch PostPatch) (*db.Post, error) {
	post, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		post.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		post.Content = strings.TrimSpace(*patch.Content)
	}
	if patch.Author != nil {
		post.Author = strings.TrimSpace(*patch.Author)
	}
	if patch.AuthorUserID != nil {
		post.AuthorUserID = patch.AuthorUserID
	}
	if patch.Tags != nil {
		post.Tags = normalizeTags(*patch.Tags)
	}
	if patch.ImageURL != nil {
		post.ImageURL = strings.TrimSpace(*patch.ImageURL)
	}
	if patch.Status != nil {
		post.Status = strings.TrimSpace(*patch.Status)
	}
	if patch.ScheduledPublishDate != nil {
		post.ScheduledPublishDate = patch.ScheduledPublishDate
	}
	if patch.ClearScheduledDate {
		post.ScheduledPublishDate = nil
	}

	if verr := validatePost(post, time.Now()); verr != nil {
		s.log.Warn("post validation failed", zap.Uint("post_id", post.ID), zap.Any("fields", verr.Fields))
		return nil, verr
	}

	if err := s.db.Save(post).Error; err != nil {
		s.log.Error("update post failed", zap.Uint("post_id", post.ID), zap.Error(err))
		return nil, WrapServiceError("database constraint violation", err)
	}

	post.PopulateDerivedFields()
	return post, nil
}

// Delete removes a post by id. Dependent rows (saved articles, media links,
// flags) cascade at the storage layer.
func (s *PostService) Delete(id int64) error {
	post, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&db.Post{}, post.ID).Error; err != nil {
		s.log.Error("delete post failed", zap.Uint("post_id", post.ID), zap.Error(err))
		return WrapServiceError("failed to delete post", err)
	}
	return nil
}

// Publish transitions a draft or scheduled post to published and clears any
// scheduled date. Publishing an already published post is a no-op.
func (s *PostService) Publish(id int64) (*db.Post, error) {
	post, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if post.Status == db.StatusPublished {
		return post, nil
	}

	updates := map[string]interface{}{
		"status":                 db.StatusPublished,
		"scheduled_publish_date": nil,
	}
	if err := s.db.Model(&db.Post{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
		s.log.Error("publish post failed", zap.Uint("post_id", post.ID), zap.Error(err))
		return nil, WrapServiceError("failed to publish post", err)
	}

	post.Status = db.StatusPublished
	post.ScheduledPublishDate = nil
	s.log.Info("post published", zap.Uint("post_id", post.ID))

	if s.notifier != nil {
		s.notifier.PostPublished(post)
	}
	return post, nil
}

// List returns one page of posts ordered by newest creation time first,
// with id as the tie break.
func (s *PostService) List(page, pageSize int) (*PostListResult, error) {
	page, pageSize, err := checkPageBounds(page, pageSize)
	if err != nil {
		return nil, err
	}

	posts, pagination, err := s.pageQuery(s.db.Model(&db.Post{}), page, pageSize)
	if err != nil {
		return nil, err
	}
	return &PostListResult{Posts: posts, Pagination: pagination}, nil
}

// Search returns posts whose title or content contains the query, case
// insensitively. Ordering and pagination behave exactly like List.
func (s *PostService) Search(query string, page, pageSize int) (*PostSearchResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, NewServiceError("search query cannot be empty")
	}

	page, pageSize, err := checkPageBounds(page, pageSize)
	if err != nil {
		return nil, err
	}

	pattern := "%" + strings.ToLower(trimmed) + "%"
	base := s.db.Model(&db.Post{}).
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)

	posts, pagination, err := s.pageQuery(base, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &PostSearchResult{Posts: posts, Query: trimmed, Pagination: pagination}, nil
}

// IncrementViewCount bumps the view counter in place.
func (s *PostService) IncrementViewCount(id int64) error {
	if id < 1 {
		return NewServiceError("post id must be a positive integer")
	}
	result := s.db.Model(&db.Post{}).Where("id = ?", uint(id)).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if result.Error != nil {
		s.log.Error("increment view count failed", zap.Int64("post_id", id), zap.Error(result.Error))
		return WrapServiceError("failed to update view count", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewPostNotFound(uint(id))
	}
	return nil
}

// pageQuery counts the filtered set, snaps the requested page into range and
// loads that page. An out-of-range page clamps to the nearest valid one
// instead of erroring.
func (s *PostService) pageQuery(base *gorm.DB, page, pageSize int) ([]db.Post, Pagination, error) {
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		s.log.Error("count posts failed", zap.Error(err))
		return nil, Pagination{}, WrapServiceError("failed to count posts", err)
	}

	totalPages := 1
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	if page > totalPages {
		page = totalPages
	}

	var posts []db.Post
	if err := base.Session(&gorm.Session{}).
		Preload("AuthorUser").
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&posts).Error; err != nil {
		s.log.Error("list posts failed", zap.Error(err))
		return nil, Pagination{}, WrapServiceError("failed to list posts", err)
	}

	for i := range posts {
		posts[i].PopulateDerivedFields()
	}

	return posts, Pagination{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPosts:  total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}, nil
}

func checkPageBounds(page, pageSize int) (int, int, error) {
	if page < 1 {
		return 0, 0, NewServiceError("page must be at least 1")
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return 0, 0, NewServiceError("page size must be between 1 and 100")
	}
	return page, pageSize, nil
}
