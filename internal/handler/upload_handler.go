package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fintalk/fintalk/internal/middleware"
	"github.com/fintalk/fintalk/internal/service"
)

const maxUploadBytes = 50 * 1024 * 1024

// UploadMedia 处理文件上传请求并记录元数据
func (a *API) UploadMedia(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no file uploaded")
		return
	}
	if file.Size > maxUploadBytes {
		respondError(c, http.StatusBadRequest, "file size exceeds 50MB")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create upload directory")
		return
	}

	// 生成唯一文件名
	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save file")
		return
	}

	media, err := a.media.RecordUpload(service.MediaUpload{
		FileName:    newFilename,
		URL:         fmt.Sprintf("%s/%s", a.uploadURL, newFilename),
		ContentType: file.Header.Get("Content-Type"),
		SizeBytes:   file.Size,
		UploaderID:  user.ID,
	})
	if err != nil {
		_ = os.Remove(filePath)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"media": media})
}

// AttachMedia 将已上传的文件挂载到文章
func (a *API) AttachMedia(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	mediaID, err := parseUintParam(c, "mediaId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	link, err := a.media.Attach(postID, mediaID)
	if err != nil {
		if err == service.ErrAlreadyAttached {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"attachment": link})
}

// DetachMedia 解除文章与文件的关联
func (a *API) DetachMedia(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	mediaID, err := parseUintParam(c, "mediaId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.media.Detach(postID, mediaID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPostMedia 列出文章的附件
func (a *API) ListPostMedia(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	items, err := a.media.ListForPost(postID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": items})
}
