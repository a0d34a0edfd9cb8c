package media

import (
	"time"

	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/google/uuid"
)

// The functions below keep an entity's image list consistent: a non-empty
// list always has exactly one primary image. None of them mutate their input.

func Append(images []model.ImageAsset, added []model.ImageAsset, capacity int) ([]model.ImageAsset, error) {
	if len(images)+len(added) > capacity {
		return images, &model.CapacityExceededError{
			Max:       capacity,
			Requested: len(added),
			Existing:  len(images),
		}
	}

	result := make([]model.ImageAsset, 0, len(images)+len(added))
	result = append(result, images...)

	hasPrimary := false
	for _, image := range images {
		if image.IsPrimary {
			hasPrimary = true
			break
		}
	}

	for i, image := range added {
		image.IsPrimary = !hasPrimary && i == 0
		result = append(result, image)
	}

	return normalizePrimary(result), nil
}

func Remove(images []model.ImageAsset, id uuid.UUID) ([]model.ImageAsset, model.ImageAsset, error) {
	index := indexOf(images, id)
	if index < 0 {
		return images, model.ImageAsset{}, imageNotFound()
	}

	removed := images[index]
	result := make([]model.ImageAsset, 0, len(images)-1)
	result = append(result, images[:index]...)
	result = append(result, images[index+1:]...)

	if removed.IsPrimary && len(result) > 0 {
		result[0].IsPrimary = true
	}

	return normalizePrimary(result), removed, nil
}

func SetPrimary(images []model.ImageAsset, id uuid.UUID) ([]model.ImageAsset, error) {
	index := indexOf(images, id)
	if index < 0 {
		return images, imageNotFound()
	}

	result := make([]model.ImageAsset, len(images))
	for i, image := range images {
		image.IsPrimary = i == index
		result[i] = image
	}

	return result, nil
}

// Primary returns the primary image, falling back to the first one.
func Primary(images []model.ImageAsset) *model.ImageAsset {
	if len(images) == 0 {
		return nil
	}

	for i := range images {
		if images[i].IsPrimary {
			image := images[i]
			return &image
		}
	}

	image := images[0]
	return &image
}

// NewImageAssets turns freshly stored files into ledger records, none primary.
func NewImageAssets(saved []SavedAsset, now time.Time) []model.ImageAsset {
	assets := make([]model.ImageAsset, 0, len(saved))
	for _, asset := range saved {
		assets = append(assets, model.ImageAsset{
			Id:           uuid.New(),
			Url:          asset.URL,
			ThumbnailUrl: asset.ThumbnailURL,
			Filename:     asset.Filename,
			OriginalName: asset.OriginalName,
			UploadedAt:   now,
		})
	}
	return assets
}

// normalizePrimary keeps the first primary flag and clears the rest; a list
// with none gets its first image promoted.
func normalizePrimary(images []model.ImageAsset) []model.ImageAsset {
	found := false
	for i := range images {
		if images[i].IsPrimary {
			if found {
				images[i].IsPrimary = false
			}
			found = true
		}
	}

	if !found && len(images) > 0 {
		images[0].IsPrimary = true
	}

	return images
}

func indexOf(images []model.ImageAsset, id uuid.UUID) int {
	for i, image := range images {
		if image.Id == id {
			return i
		}
	}
	return -1
}

func imageNotFound() error {
	return &model.NotFoundError{Resource: "Image", Param: "imageId"}
}
