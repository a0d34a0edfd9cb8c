package model

import (
	"time"

	"github.com/google/uuid"
)

type ImageAsset struct {
	Id           uuid.UUID `json:"id"`
	Url          string    `json:"url"`
	ThumbnailUrl string    `json:"thumbnailUrl"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	IsPrimary    bool      `json:"isPrimary"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type SkippedImage struct {
	OriginalName string `json:"originalName"`
	Code         string `json:"code"`
	Message      string `json:"message"`
}

type ImageUploadResponse struct {
	Message string         `json:"message"`
	Images  []ImageAsset   `json:"images"`
	Skipped []SkippedImage `json:"skipped"`
}

type ImageListResponse struct {
	Message string       `json:"message,omitempty"`
	Images  []ImageAsset `json:"images"`
}

type AvatarResponse struct {
	Message string      `json:"message"`
	Avatar  *ImageAsset `json:"avatar"`
}
