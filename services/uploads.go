package services

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/life-lessons/api-go/models"
	"github.com/life-lessons/api-go/storage"
)

const (
	UploadKindLesson = "lesson"
	UploadKindAvatar = "avatar"

	maxUploadSize = 5 * 1024 * 1024
	uploadURLTTL  = 15 * time.Minute
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var unsafeKeyChars = regexp.MustCompile(`[^a-z0-9._-]+`)

type UploadRequest struct {
	Kind        string
	FileName    string
	ContentType string
	FileSize    int64
}

type PresignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

// UploadService hands out direct-to-bucket upload URLs for images. A nil
// presigner means object storage is not configured.
type UploadService struct {
	presigner storage.Presigner
}

func NewUploadService(presigner storage.Presigner) *UploadService {
	return &UploadService{presigner: presigner}
}

func (s *UploadService) Presign(ctx context.Context, principal string, req UploadRequest) (*PresignedUpload, error) {
	if s.presigner == nil {
		return nil, models.ErrStorageDisabled
	}
	if req.Kind != UploadKindLesson && req.Kind != UploadKindAvatar {
		return nil, fmt.Errorf("%w: kind must be lesson or avatar", models.ErrInvalidInput)
	}
	defaultExt, ok := allowedImageTypes[req.ContentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported content type %q", models.ErrInvalidInput, req.ContentType)
	}
	if req.FileSize <= 0 || req.FileSize > maxUploadSize {
		return nil, fmt.Errorf("%w: file size must be between 1 byte and 5 MiB", models.ErrInvalidInput)
	}

	key := uploadKey(req.Kind, principal, req.FileName, defaultExt)
	url, err := s.presigner.PresignPut(ctx, key, req.ContentType, uploadURLTTL)
	if err != nil {
		return nil, err
	}
	return &PresignedUpload{
		UploadURL: url,
		FileURL:   s.presigner.PublicURL(key),
		Key:       key,
		ExpiresIn: int(uploadURLTTL.Seconds()),
	}, nil
}

func uploadKey(kind, email, fileName, defaultExt string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || unsafeKeyChars.MatchString(ext[1:]) {
		ext = defaultExt
	}
	owner := unsafeKeyChars.ReplaceAllString(strings.ToLower(email), "_")
	return fmt.Sprintf("%ss/%s/%s%s", kind, owner, uuid.NewString(), ext)
}
