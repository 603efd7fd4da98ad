package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fintalk/fintalk/internal/db"
)

var (
	ErrAlreadySaved = errors.New("article already saved")
	ErrNotSaved     = errors.New("article not saved")
)

// SavedArticleService manages a user's saved reading list.
type SavedArticleService struct {
	db  *gorm.DB
	log *zap.Logger
}

// SavedListResult aggregates one page of saved articles.
type SavedListResult struct {
	Items      []db.SavedArticle
	Pagination Pagination
}

// NewSavedArticleService creates a SavedArticleService instance.
func NewSavedArticleService(gdb *gorm.DB, log *zap.Logger) *SavedArticleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SavedArticleService{db: gdb, log: log}
}

// Save bookmarks a post for a user. Saving a missing post reports not-found;
// saving twice reports ErrAlreadySaved.
func (s *SavedArticleService) Save(userID, postID uint) (*db.SavedArticle, error) {
	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewPostNotFound(postID)
		}
		return nil, WrapServiceError("failed to load post", err)
	}

	var existing db.SavedArticle
	err := s.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadySaved
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, WrapServiceError("failed to check saved article", err)
	}

	saved := db.SavedArticle{UserID: userID, PostID: postID}
	if err := s.db.Create(&saved).Error; err != nil {
		s.log.Error("save article failed", zap.Uint("user_id", userID), zap.Uint("post_id", postID), zap.Error(err))
		return nil, WrapServiceError("failed to save article", err)
	}

	saved.Post = post
	saved.Post.PopulateDerivedFields()
	return &saved, nil
}

// Unsave removes a bookmark.
func (s *SavedArticleService) Unsave(userID, postID uint) error {
	result := s.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&db.SavedArticle{})
	if result.Error != nil {
		s.log.Error("unsave article failed", zap.Uint("user_id", userID), zap.Uint("post_id", postID), zap.Error(result.Error))
		return WrapServiceError("failed to remove saved article", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotSaved
	}
	return nil
}

// List returns the user's saved articles, newest first.
func (s *SavedArticleService) List(userID uint, page, pageSize int) (*SavedListResult, error) {
	page, pageSize, err := checkPageBounds(page, pageSize)
	if err != nil {
		return nil, err
	}

	base := s.db.Model(&db.SavedArticle{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, WrapServiceError("failed to count saved articles", err)
	}

	totalPages := 1
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	if page > totalPages {
		page = totalPages
	}

	var items []db.SavedArticle
	if err := base.Session(&gorm.Session{}).
		Preload("Post").
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&items).Error; err != nil {
		return nil, WrapServiceError("failed to list saved articles", err)
	}

	for i := range items {
		items[i].Post.PopulateDerivedFields()
	}

	return &SavedListResult{
		Items: items,
		Pagination: Pagination{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalPosts:  total,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	}, nil
}
