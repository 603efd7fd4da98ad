package db

import "time"

// MediaFile 记录一次上传产生的文件元数据。
type MediaFile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FileName    string    `gorm:"size:255;not null" json:"file_name"`
	URL         string    `gorm:"size:500;not null" json:"url"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploaderID  uint      `gorm:"index;not null" json:"uploader_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// PostMedia attaches a media file to a post. Rows are removed together with
// their post.
type PostMedia struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"index;not null;uniqueIndex:idx_post_media" json:"post_id"`
	Post        Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	MediaFileID uint      `gorm:"not null;uniqueIndex:idx_post_media" json:"media_file_id"`
	MediaFile   MediaFile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"media_file"`
	CreatedAt   time.Time `json:"created_at"`
}
