package db

import (
	"strings"
	"time"
)

// Post status values. A post starts as a draft, may be queued with a future
// publish date, and ends up published. Nothing moves a published post back.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusScheduled = "scheduled"
)

// Post 定义了文章模型
type Post struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	Title                string     `gorm:"size:200;not null" json:"title"`
	Content              string     `gorm:"type:text;not null" json:"content"`
	Author               string     `gorm:"size:100;not null" json:"author"`
	AuthorUserID         *uint      `gorm:"index" json:"author_user_id"`
	AuthorUser           *User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author_user,omitempty"`
	Tags                 string     `gorm:"size:500" json:"tags"`
	ImageURL             string     `gorm:"size:500" json:"image_url"`
	Status               string     `gorm:"size:16;not null;default:'draft';index" json:"status"`
	ScheduledPublishDate *time.Time `json:"scheduled_publish_date"`
	ViewCount            int64      `gorm:"not null;default:0" json:"view_count"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// TagList is derived from Tags at serialization time, never persisted.
	TagList []string `gorm:"-" json:"tags_list"`
}

// PopulateDerivedFields fills computed fields before the post is serialized.
func (p *Post) PopulateDerivedFields() {
	p.TagList = ParseTags(p.Tags)
}

// DisplayAuthor resolves the display name: the linked account wins over the
// denormalized author column when both are present.
func (p *Post) DisplayAuthor() string {
	if p.AuthorUser != nil {
		if name := strings.TrimSpace(p.AuthorUser.DisplayName); name != "" {
			return name
		}
		if p.AuthorUser.Username != "" {
			return p.AuthorUser.Username
		}
	}
	return p.Author
}

// ParseTags splits a comma separated tag string, trimming whitespace and
// dropping empty entries. Duplicates pass through untouched.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// JoinTags re-serializes a tag list into the normalized comma-and-space form.
func JoinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, ", ")
}
