package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fintalk/fintalk/internal/db"
)

var ErrAlreadyAttached = errors.New("media already attached to post")

// MediaService tracks uploaded files and their attachment to posts. Writing
// the bytes to disk is the handler's job; this layer owns the metadata.
type MediaService struct {
	db  *gorm.DB
	log *zap.Logger
}

// MediaUpload describes a stored file to record.
type MediaUpload struct {
	FileName    string
	URL         string
	ContentType string
	SizeBytes   int64
	UploaderID  uint
}

// NewMediaService creates a MediaService instance.
func NewMediaService(gdb *gorm.DB, log *zap.Logger) *MediaService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MediaService{db: gdb, log: log}
}

// RecordUpload persists metadata for a file already written to storage.
func (s *MediaService) RecordUpload(upload MediaUpload) (*db.MediaFile, error) {
	file := db.MediaFile{
		FileName:    upload.FileName,
		URL:         upload.URL,
		ContentType: upload.ContentType,
		SizeBytes:   upload.SizeBytes,
		UploaderID:  upload.UploaderID,
	}
	if err := s.db.Create(&file).Error; err != nil {
		s.log.Error("record upload failed", zap.String("file", upload.FileName), zap.Error(err))
		return nil, WrapServiceError("failed to record upload", err)
	}
	return &file, nil
}

// Attach links an uploaded file to a post.
func (s *MediaService) Attach(postID, mediaFileID uint) (*db.PostMedia, error) {
	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewPostNotFound(postID)
		}
		return nil, WrapServiceError("failed to load post", err)
	}

	var file db.MediaFile
	if err := s.db.First(&file, mediaFileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "media file", ID: mediaFileID}
		}
		return nil, WrapServiceError("failed to load media file", err)
	}

	var existing db.PostMedia
	err := s.db.Where("post_id = ? AND media_file_id = ?", postID, mediaFileID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyAttached
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, WrapServiceError("failed to check attachment", err)
	}

	link := db.PostMedia{PostID: postID, MediaFileID: mediaFileID, MediaFile: file}
	if err := s.db.Create(&link).Error; err != nil {
		s.log.Error("attach media failed", zap.Uint("post_id", postID), zap.Uint("media_file_id", mediaFileID), zap.Error(err))
		return nil, WrapServiceError("failed to attach media", err)
	}
	return &link, nil
}

// Detach unlinks a file from a post; the file record itself survives.
func (s *MediaService) Detach(postID, mediaFileID uint) error {
	result := s.db.Where("post_id = ? AND media_file_id = ?", postID, mediaFileID).Delete(&db.PostMedia{})
	if result.Error != nil {
		return WrapServiceError("failed to detach media", result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Resource: "attachment", ID: mediaFileID}
	}
	return nil
}

// ListForPost returns a post's attachments in upload order.
func (s *MediaService) ListForPost(postID uint) ([]db.PostMedia, error) {
	var items []db.PostMedia
	if err := s.db.Preload("MediaFile").
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, WrapServiceError("failed to list post media", err)
	}
	return items, nil
}
