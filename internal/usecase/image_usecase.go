package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ferdian3456/brewlog/internal/media"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/ferdian3456/brewlog/internal/observability"
	"github.com/google/uuid"

	"go.uber.org/zap"
)

type ImageLedgerRepository interface {
	CountImages(ctx context.Context, category media.Category, entityId uuid.UUID, ownerId uuid.UUID) (int, error)
	MutateImages(ctx context.Context, category media.Category, entityId uuid.UUID, ownerId uuid.UUID, fn func([]model.ImageAsset) ([]model.ImageAsset, error)) ([]model.ImageAsset, error)
}

type MediaPipeline interface {
	Ingest(ctx context.Context, category media.Category, entityID uuid.UUID, existing int, uploads []media.Upload) (media.IngestResult, error)
	Discard(ctx context.Context, category media.Category, entityID uuid.UUID, assets []media.SavedAsset)
	Remove(ctx context.Context, category media.Category, entityID uuid.UUID, filename string) error
	RemoveAll(ctx context.Context, category media.Category, entityID uuid.UUID) error
}

type ImageUsecase struct {
	ImageRepository ImageLedgerRepository
	Pipeline        MediaPipeline
	Log             *zap.Logger
}

func NewImageUsecase(imageRepository ImageLedgerRepository, pipeline MediaPipeline, zap *zap.Logger) *ImageUsecase {
	return &ImageUsecase{
		ImageRepository: imageRepository,
		Pipeline:        pipeline,
		Log:             zap,
	}
}

// Upload stores a batch of images on a coffee or brew owned by userId. The
// count read before processing is only a fast path: the capacity check that
// counts is repeated under the row lock, and a losing batch has its files
// removed.
func (usecase *ImageUsecase) Upload(ctx context.Context, category media.Category, entityId uuid.UUID, userId uuid.UUID, uploads []media.Upload) (model.ImageUploadResponse, error) {
	response := model.ImageUploadResponse{}

	policy, ok := media.PolicyFor(category)
	if !ok {
		return response, fmt.Errorf("unknown image category %q", category)
	}

	existing, err := usecase.ImageRepository.CountImages(ctx, category, entityId, userId)
	if err != nil {
		return response, err
	}

	result, err := usecase.Pipeline.Ingest(ctx, category, entityId, existing, uploads)
	if err != nil {
		return response, err
	}

	added := media.NewImageAssets(result.Saved, time.Now().UTC())

	images, err := usecase.ImageRepository.MutateImages(ctx, category, entityId, userId, func(current []model.ImageAsset) ([]model.ImageAsset, error) {
		return media.Append(current, added, policy.Capacity)
	})
	if err != nil {
		usecase.Pipeline.Discard(context.WithoutCancel(ctx), category, entityId, result.Saved)
		return response, err
	}

	skipped := result.Skipped
	if skipped == nil {
		skipped = []model.SkippedImage{}
	}

	response.Message = fmt.Sprintf("%d image(s) uploaded", len(added))
	response.Images = images
	response.Skipped = skipped

	return response, nil
}

// Delete drops the image from the ledger first, then its files. A failed
// file delete leaves an orphan that RemoveEntityImages collects later.
func (usecase *ImageUsecase) Delete(ctx context.Context, category media.Category, entityId uuid.UUID, userId uuid.UUID, imageId uuid.UUID) (model.ImageListResponse, error) {
	response := model.ImageListResponse{}

	var removed model.ImageAsset
	images, err := usecase.ImageRepository.MutateImages(ctx, category, entityId, userId, func(current []model.ImageAsset) ([]model.ImageAsset, error) {
		updated, image, err := media.Remove(current, imageId)
		if err != nil {
			return nil, err
		}
		removed = image
		return updated, nil
	})
	if err != nil {
		return response, err
	}

	usecase.removeFiles(ctx, category, entityId, removed.Filename)

	response.Message = "Image deleted"
	response.Images = images

	return response, nil
}

func (usecase *ImageUsecase) SetPrimary(ctx context.Context, category media.Category, entityId uuid.UUID, userId uuid.UUID, imageId uuid.UUID) (model.ImageListResponse, error) {
	response := model.ImageListResponse{}

	images, err := usecase.ImageRepository.MutateImages(ctx, category, entityId, userId, func(current []model.ImageAsset) ([]model.ImageAsset, error) {
		return media.SetPrimary(current, imageId)
	})
	if err != nil {
		return response, err
	}

	response.Images = images

	return response, nil
}

// UploadAvatar replaces the user's avatar. The previous files are removed
// only after the new avatar is committed.
func (usecase *ImageUsecase) UploadAvatar(ctx context.Context, userId uuid.UUID, upload media.Upload) (model.AvatarResponse, error) {
	response := model.AvatarResponse{}

	result, err := usecase.Pipeline.Ingest(ctx, media.CategoryAvatars, userId, 0, []media.Upload{upload})
	if err != nil {
		return response, err
	}

	added := media.NewImageAssets(result.Saved, time.Now().UTC())

	var previous []model.ImageAsset
	images, err := usecase.ImageRepository.MutateImages(ctx, media.CategoryAvatars, userId, userId, func(current []model.ImageAsset) ([]model.ImageAsset, error) {
		previous = current
		return media.Append(nil, added, 1)
	})
	if err != nil {
		usecase.Pipeline.Discard(context.WithoutCancel(ctx), media.CategoryAvatars, userId, result.Saved)
		return response, err
	}

	for _, old := range previous {
		usecase.removeFiles(ctx, media.CategoryAvatars, userId, old.Filename)
	}

	response.Message = "Avatar updated"
	response.Avatar = media.Primary(images)

	return response, nil
}

func (usecase *ImageUsecase) DeleteAvatar(ctx context.Context, userId uuid.UUID) (model.MessageResponse, error) {
	var previous []model.ImageAsset
	_, err := usecase.ImageRepository.MutateImages(ctx, media.CategoryAvatars, userId, userId, func(current []model.ImageAsset) ([]model.ImageAsset, error) {
		previous = current
		return nil, nil
	})
	if err != nil {
		return model.MessageResponse{}, err
	}

	for _, old := range previous {
		usecase.removeFiles(ctx, media.CategoryAvatars, userId, old.Filename)
	}

	return model.MessageResponse{Message: "Avatar removed"}, nil
}

// RemoveEntityImages deletes every stored file of an entity. Callers run it
// after the entity row is gone, so failures are logged, not returned.
func (usecase *ImageUsecase) RemoveEntityImages(ctx context.Context, category media.Category, entityId uuid.UUID) {
	err := usecase.Pipeline.RemoveAll(context.WithoutCancel(ctx), category, entityId)
	if err != nil {
		observability.WithContext(ctx, usecase.Log).Warn("failed to remove entity images",
			zap.String("category", string(category)),
			zap.String("entityId", entityId.String()),
			zap.Error(err),
		)
	}
}

func (usecase *ImageUsecase) removeFiles(ctx context.Context, category media.Category, entityId uuid.UUID, filename string) {
	if filename == "" {
		return
	}

	err := usecase.Pipeline.Remove(context.WithoutCancel(ctx), category, entityId, filename)
	if err != nil {
		observability.WithContext(ctx, usecase.Log).Warn("failed to remove image files, leaving orphan",
			zap.String("category", string(category)),
			zap.String("entityId", entityId.String()),
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
}
