package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/voice-local/api-go/utils"
)

const (
	maxImageSize       = 10 * 1024 * 1024
	uploadURLExpiresIn = 15 * time.Minute
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// ImagePresigner hands out direct-to-bucket upload URLs.
type ImagePresigner interface {
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	PublicURL(key string) string
}

type UploadController struct {
	Images ImagePresigner
}

type PresignedURLRequest struct {
	FileName    string `json:"fileName" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required,min=1"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

func NewUploadController(images ImagePresigner) *UploadController {
	return &UploadController{Images: images}
}

// IssueImageUploadURL returns a presigned PUT URL for an issue photo. The
// returned fileUrl is what clients store in an issue's imageUrl.
func (uc *UploadController) IssueImageUploadURL(c *gin.Context) {
	if uc.Images == nil {
		respondError(c, http.StatusServiceUnavailable, "Image uploads are not configured.")
		return
	}

	user := utils.GetUser(c)
	var req PresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if _, ok := allowedImageTypes[contentType]; !ok {
		respondValidation(c, utils.FieldErrors{"contentType": {"Unsupported image type. Use JPEG, PNG, WebP or HEIC."}})
		return
	}
	if req.FileSize > maxImageSize {
		respondValidation(c, utils.FieldErrors{"fileSize": {"File size exceeds the 10 MB limit."}})
		return
	}

	key := generateFileKey(user.UserID, req.FileName, contentType)
	uploadURL, err := uc.Images.PresignPut(c.Request.Context(), key, contentType, uploadURLExpiresIn)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, PresignedURLResponse{
		UploadURL: uploadURL,
		FileURL:   uc.Images.PublicURL(key),
		Key:       key,
		ExpiresIn: int(uploadURLExpiresIn.Seconds()),
	})
}

func generateFileKey(userID uint, fileName, contentType string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || len(ext) > 6 {
		ext = allowedImageTypes[contentType]
	}
	return fmt.Sprintf("issues/%d/%d_%s%s", userID, time.Now().Unix(), uuid.New().String(), ext)
}
