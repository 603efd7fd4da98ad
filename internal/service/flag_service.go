package service

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fintalk/fintalk/internal/db"
)

var (
	ErrDuplicateFlag       = errors.New("post already flagged by this user")
	ErrFlagAlreadyReviewed = errors.New("flag already reviewed")
)

// FlagService handles the content moderation queue.
type FlagService struct {
	db  *gorm.DB
	log *zap.Logger
}

// FlagListResult aggregates one page of flags.
type FlagListResult struct {
	Flags      []db.ContentFlag
	Pagination Pagination
}

// NewFlagService creates a FlagService instance.
func NewFlagService(gdb *gorm.DB, log *zap.Logger) *FlagService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FlagService{db: gdb, log: log}
}

// Flag records a report against a post. A reporter may hold at most one
// pending flag per post.
func (s *FlagService) Flag(postID, reporterID uint, reason string) (*db.ContentFlag, error) {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		verr := NewValidationError()
		verr.Add("reason", "Reason is required")
		return nil, verr
	}
	if len([]rune(trimmed)) > 500 {
		verr := NewValidationError()
		verr.Add("reason", "Reason cannot exceed 500 characters")
		return nil, verr
	}

	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewPostNotFound(postID)
		}
		return nil, WrapServiceError("failed to load post", err)
	}

	var existing db.ContentFlag
	err := s.db.Where("post_id = ? AND reporter_id = ? AND status = ?", postID, reporterID, db.FlagPending).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateFlag
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, WrapServiceError("failed to check existing flags", err)
	}

	flag := db.ContentFlag{
		PostID:     postID,
		ReporterID: reporterID,
		Reason:     trimmed,
		Status:     db.FlagPending,
	}
	if err := s.db.Create(&flag).Error; err != nil {
		s.log.Error("create flag failed", zap.Uint("post_id", postID), zap.Error(err))
		return nil, WrapServiceError("failed to flag post", err)
	}

	s.log.Info("post flagged", zap.Uint("post_id", postID), zap.Uint("reporter_id", reporterID))
	return &flag, nil
}

// ListPending returns the moderation queue, oldest flags first so reviewers
// work in arrival order.
func (s *FlagService) ListPending(page, pageSize int) (*FlagListResult, error) {
	page, pageSize, err := checkPageBounds(page, pageSize)
	if err != nil {
		return nil, err
	}

	base := s.db.Model(&db.ContentFlag{}).Where("status = ?", db.FlagPending)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, WrapServiceError("failed to count flags", err)
	}

	totalPages := 1
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	if page > totalPages {
		page = totalPages
	}

	var flags []db.ContentFlag
	if err := base.Session(&gorm.Session{}).
		Preload("Post").
		Order("created_at ASC, id ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&flags).Error; err != nil {
		return nil, WrapServiceError("failed to list flags", err)
	}

	return &FlagListResult{
		Flags: flags,
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

// Resolve marks a pending flag as actioned by a reviewer.
func (s *FlagService) Resolve(flagID, reviewerID uint) (*db.ContentFlag, error) {
	return s.review(flagID, reviewerID, db.FlagResolved)
}

// Dismiss marks a pending flag as rejected by a reviewer.
func (s *FlagService) Dismiss(flagID, reviewerID uint) (*db.ContentFlag, error) {
	return s.review(flagID, reviewerID, db.FlagDismissed)
}

func (s *FlagService) review(flagID, reviewerID uint, status string) (*db.ContentFlag, error) {
	var flag db.ContentFlag
	if err := s.db.First(&flag, flagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "flag", ID: flagID}
		}
		return nil, WrapServiceError("failed to load flag", err)
	}

	if flag.Status != db.FlagPending {
		return nil, ErrFlagAlreadyReviewed
	}

	now := time.Now()
	flag.Status = status
	flag.ReviewerID = &reviewerID
	flag.ReviewedAt = &now
	if err := s.db.Save(&flag).Error; err != nil {
		s.log.Error("review flag failed", zap.Uint("flag_id", flagID), zap.Error(err))
		return nil, WrapServiceError("failed to review flag", err)
	}

	s.log.Info("flag reviewed", zap.Uint("flag_id", flagID), zap.String("status", status))
	return &flag, nil
}
