package db

import "time"

// Flag review states.
const (
	FlagPending   = "pending"
	FlagResolved  = "resolved"
	FlagDismissed = "dismissed"
)

// ContentFlag 记录读者对文章内容的举报。
type ContentFlag struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PostID     uint       `gorm:"index;not null" json:"post_id"`
	Post       Post       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ReporterID uint       `gorm:"index;not null" json:"reporter_id"`
	Reporter   User       `gorm:"foreignKey:ReporterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Reason     string     `gorm:"size:500;not null" json:"reason"`
	Status     string     `gorm:"size:16;not null;default:'pending';index" json:"status"`
	ReviewerID *uint      `json:"reviewer_id,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
