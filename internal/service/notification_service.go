package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fintalk/fintalk/internal/db"
)

// Mailer delivers a single plain text message.
type Mailer interface {
	Send(to, subject, body string) error
}

// NotificationService emails followers when an author's post goes live.
// Delivery is best effort: failures are logged, never propagated.
type NotificationService struct {
	db      *gorm.DB
	log     *zap.Logger
	mailer  Mailer
	baseURL string
}

// NewNotificationService creates a NotificationService instance.
func NewNotificationService(gdb *gorm.DB, log *zap.Logger, mailer Mailer, baseURL string) *NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationService{db: gdb, log: log, mailer: mailer, baseURL: strings.TrimRight(baseURL, "/")}
}

// PostPublished implements PostPublishedNotifier. Posts without a linked
// author account have no followers to notify.
func (s *NotificationService) PostPublished(post *db.Post) {
	if s.mailer == nil || post.AuthorUserID == nil {
		return
	}

	var followers []db.User
	if err := s.db.
		Joins("JOIN user_follows ON user_follows.follower_id = users.id").
		Where("user_follows.followee_id = ? AND users.email <> ''", *post.AuthorUserID).
		Find(&followers).Error; err != nil {
		s.log.Error("load followers for notification failed", zap.Uint("post_id", post.ID), zap.Error(err))
		return
	}

	subject := fmt.Sprintf("New post: %s", post.Title)
	body := fmt.Sprintf("%s just published %q.\n\nRead it here: %s/api/posts/%d\n",
		post.DisplayAuthor(), post.Title, s.baseURL, post.ID)

	for _, follower := range followers {
		if err := s.mailer.Send(follower.Email, subject, body); err != nil {
			s.log.Warn("notification mail failed",
				zap.Uint("post_id", post.ID),
				zap.Uint("user_id", follower.ID),
				zap.Error(err))
		}
	}
}
