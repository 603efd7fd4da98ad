package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fintalk/fintalk/internal/db"
)

// PublishDuePosts promotes every scheduled post whose publish date has
// passed. Each row is flipped with a conditional update so a post already
// taken by a concurrent sweep run is skipped, which also makes the sweep
// idempotent. A failing row is logged and does not abort the batch.
func (s *PostService) PublishDuePosts() {
	var due []db.Post
	if err := s.db.
		Where("status = ? AND scheduled_publish_date <= ?", db.StatusScheduled, time.Now()).
		Find(&due).Error; err != nil {
		s.log.Error("publish sweep query failed", zap.Error(err))
		return
	}

	for i := range due {
		post := &due[i]
		result := s.db.Model(&db.Post{}).
			Where("id = ? AND status = ?", post.ID, db.StatusScheduled).
			Updates(map[string]interface{}{
				"status":                 db.StatusPublished,
				"scheduled_publish_date": nil,
			})
		if result.Error != nil {
			s.log.Error("publish sweep item failed", zap.Uint("post_id", post.ID), zap.Error(result.Error))
			continue
		}
		if result.RowsAffected == 0 {
			// Another actor got here first; nothing to do.
			continue
		}

		s.log.Info("scheduled post published", zap.Uint("post_id", post.ID))
		if s.notifier != nil {
			post.Status = db.StatusPublished
			post.ScheduledPublishDate = nil
			s.notifier.PostPublished(post)
		}
	}
}

// RunPublishSweeper runs PublishDuePosts on a fixed interval until the
// context is cancelled. Intended to be started once from the bootstrap.
func (s *PostService) RunPublishSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("publish sweeper started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("publish sweeper stopped")
			return
		case <-ticker.C:
			s.PublishDuePosts()
		}
	}
}
