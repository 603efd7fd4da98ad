package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/fintalk/fintalk/internal/db"
)

// Field length bounds for posts.
const (
	titleMinLen   = 5
	titleMaxLen   = 200
	contentMinLen = 10
	authorMinLen  = 2
	authorMaxLen  = 100
	tagsMaxLen    = 500
)

// validatePost checks a fully merged post. String fields are expected to be
// trimmed already; tags are expected to be normalized. All failures are
// aggregated so the caller sees every broken field at once.
func validatePost(post *db.Post, now time.Time) *ValidationError {
	verr := NewValidationError()

	checkLength(verr, "title", "Title", post.Title, titleMinLen, titleMaxLen)
	checkLength(verr, "content", "Content", post.Content, contentMinLen, 0)
	checkLength(verr, "author", "Author", post.Author, authorMinLen, authorMaxLen)

	if len(post.Tags) > tagsMaxLen {
		verr.Add("tags", fmt.Sprintf("Tags cannot exceed %d characters", tagsMaxLen))
	}

	if post.Title != "" && post.Content != "" && post.Content == post.Title {
		verr.Add("content", "Content cannot be identical to the title")
	}

	switch post.Status {
	case db.StatusDraft, db.StatusPublished:
		if post.ScheduledPublishDate != nil {
			verr.Add("scheduled_publish_date", "Scheduled publish date is only allowed when status is scheduled")
		}
	case db.StatusScheduled:
		if post.ScheduledPublishDate == nil {
			verr.Add("scheduled_publish_date", "Scheduled publish date is required when status is scheduled")
		} else if !post.ScheduledPublishDate.After(now) {
			verr.Add("scheduled_publish_date", "Scheduled publish date must be in the future")
		}
	default:
		verr.Add("status", "Status must be one of draft, published, scheduled")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// checkLength validates a trimmed string field. A value that trimmed down to
// nothing fails the minimum-length check rather than a separate blank check,
// so whitespace-only input reports the same error as a too-short one. max of
// 0 means unbounded.
func checkLength(verr *ValidationError, field, label, value string, min, max int) {
	if len([]rune(value)) < min {
		verr.Add(field, fmt.Sprintf("%s must be at least %d characters long", label, min))
		return
	}
	if max > 0 && len([]rune(value)) > max {
		verr.Add(field, fmt.Sprintf("%s cannot exceed %d characters", label, max))
	}
}

// normalizeTags trims every entry, drops empties and re-joins with ", ".
// Duplicates are preserved.
func normalizeTags(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return db.JoinTags(db.ParseTags(raw))
}
