package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"
)

var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
}

var AllowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
}

type Upload struct {
	OriginalName string
	ContentType  string
	Size         int64
	Data         []byte
}

type GateResult struct {
	Accepted []Upload
	Skipped  []model.SkippedImage
}

// Gate filters a batch against the category policy without touching storage.
// Rejected files are reported in Skipped; the batch only fails outright when
// it is empty, fully rejected, or would overflow the entity.
func Gate(policy Policy, existing int, uploads []Upload) (GateResult, error) {
	result := GateResult{}

	if len(uploads) == 0 {
		return result, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "No images provided",
			Param:   "images",
		}
	}

	var firstErr *model.ValidationError
	for _, upload := range uploads {
		err := validateUpload(policy, upload)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			result.Skipped = append(result.Skipped, model.SkippedImage{
				OriginalName: upload.OriginalName,
				Code:         err.Code,
				Message:      err.Message,
			})
			continue
		}
		result.Accepted = append(result.Accepted, upload)
	}

	if len(result.Accepted) == 0 {
		return result, firstErr
	}

	if policy.Replace {
		existing = 0
	}

	if existing+len(result.Accepted) > policy.Capacity {
		return result, &model.CapacityExceededError{
			Max:       policy.Capacity,
			Requested: len(result.Accepted),
			Existing:  existing,
		}
	}

	return result, nil
}

func validateUpload(policy Policy, upload Upload) *model.ValidationError {
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if !AllowedImageTypes[contentType] {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: fmt.Sprintf("Invalid file type: %s. allowed types: jpeg, png, webp, heic", upload.ContentType),
			Param:   upload.OriginalName,
		}
	}

	ext := strings.ToLower(filepath.Ext(upload.OriginalName))
	if !AllowedImageExtensions[ext] {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: fmt.Sprintf("Invalid file extension: %s", ext),
			Param:   upload.OriginalName,
		}
	}

	if upload.Size > policy.MaxFileSize {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: fmt.Sprintf("Image size exceeded %dMB limit", policy.MaxFileSize/(1024*1024)),
			Param:   upload.OriginalName,
		}
	}

	return nil
}
