package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fintalk/fintalk/internal/db"
)

var (
	ErrSelfFollow       = errors.New("users cannot follow themselves")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
)

// FollowService manages follow relationships between users.
type FollowService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewFollowService creates a FollowService instance.
func NewFollowService(gdb *gorm.DB, log *zap.Logger) *FollowService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FollowService{db: gdb, log: log}
}

// Follow makes follower follow followee.
func (s *FollowService) Follow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}

	var followee db.User
	if err := s.db.First(&followee, followeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "user", ID: followeeID}
		}
		return WrapServiceError("failed to load user", err)
	}

	var existing db.UserFollow
	err := s.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).First(&existing).Error
	if err == nil {
		return ErrAlreadyFollowing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return WrapServiceError("failed to check follow state", err)
	}

	if err := s.db.Create(&db.UserFollow{FollowerID: followerID, FolloweeID: followeeID}).Error; err != nil {
		s.log.Error("follow failed", zap.Uint("follower_id", followerID), zap.Uint("followee_id", followeeID), zap.Error(err))
		return WrapServiceError("failed to follow user", err)
	}
	return nil
}

// Unfollow removes the relationship.
func (s *FollowService) Unfollow(followerID, followeeID uint) error {
	result := s.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&db.UserFollow{})
	if result.Error != nil {
		return WrapServiceError("failed to unfollow user", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// Followers lists the users following userID.
func (s *FollowService) Followers(userID uint) ([]db.User, error) {
	var users []db.User
	if err := s.db.
		Joins("JOIN user_follows ON user_follows.follower_id = users.id").
		Where("user_follows.followee_id = ?", userID).
		Order("user_follows.created_at DESC").
		Find(&users).Error; err != nil {
		return nil, WrapServiceError("failed to list followers", err)
	}
	return users, nil
}

// Following lists the users userID follows.
func (s *FollowService) Following(userID uint) ([]db.User, error) {
	var users []db.User
	if err := s.db.
		Joins("JOIN user_follows ON user_follows.followee_id = users.id").
		Where("user_follows.follower_id = ?", userID).
		Order("user_follows.created_at DESC").
		Find(&users).Error; err != nil {
		return nil, WrapServiceError("failed to list following", err)
	}
	return users, nil
}
