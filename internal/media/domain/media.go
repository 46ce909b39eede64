package domain

import (
	"time"
)

// AllowedContentTypes lists the image types accepted for upload.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// MaxFileSize is the maximum allowed upload size in bytes (10 MB).
const MaxFileSize int64 = 10 * 1024 * 1024

// Media is the stored record of an uploaded image. The URL points at the
// external CDN; product records reference it verbatim.
type Media struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	URL         string    `json:"url"`
	StorageKey  string    `json:"-"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsAllowedContentType checks whether the given content type is accepted.
func IsAllowedContentType(contentType string) bool {
	return AllowedContentTypes[contentType]
}
