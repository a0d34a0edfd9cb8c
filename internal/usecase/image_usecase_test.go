package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ferdian3456/brewlog/internal/media"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/ferdian3456/brewlog/internal/usecase/mocks"
	"github.com/google/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func savedAsset(filename string) media.SavedAsset {
	return media.SavedAsset{
		URL:          "/uploads/coffees/x/" + filename,
		ThumbnailURL: "/uploads/coffees/x/thumbnails/" + filename,
		Filename:     filename,
		OriginalName: filename,
	}
}

func storedImage(filename string, primary bool) model.ImageAsset {
	return model.ImageAsset{
		Id:         uuid.New(),
		Filename:   filename,
		IsPrimary:  primary,
		UploadedAt: time.Now(),
	}
}

func newImageUsecase() (*ImageUsecase, *mocks.MockImageLedgerRepository, *mocks.MockMediaPipeline) {
	repo := new(mocks.MockImageLedgerRepository)
	pipeline := new(mocks.MockMediaPipeline)
	return NewImageUsecase(repo, pipeline, zap.NewNop()), repo, pipeline
}

func TestImageUsecase_Upload(t *testing.T) {
	ctx := context.Background()
	coffeeId := uuid.New()
	userId := uuid.New()
	uploads := []media.Upload{{OriginalName: "a.jpg", ContentType: "image/jpeg", Size: 3, Data: []byte{1, 2, 3}}}

	t.Run("first image becomes primary", func(t *testing.T) {
		uc, repo, pipeline := newImageUsecase()

		repo.On("CountImages", ctx, media.CategoryCoffees, coffeeId, userId).Return(0, nil)
		pipeline.On("Ingest", ctx, media.CategoryCoffees, coffeeId, 0, uploads).
			Return(media.IngestResult{Saved: []media.SavedAsset{savedAsset("1-a.jpg")}}, nil)
		repo.On("MutateImages", ctx, media.CategoryCoffees, coffeeId, userId).Return([]model.ImageAsset{}, nil)

		resp, err := uc.Upload(ctx, media.CategoryCoffees, coffeeId, userId, uploads)
		require.NoError(t, err)

		assert.Equal(t, "1 image(s) uploaded", resp.Message)
		require.Len(t, resp.Images, 1)
		assert.True(t, resp.Images[0].IsPrimary)
		assert.NotNil(t, resp.Skipped)
		assert.Empty(t, resp.Skipped)
		pipeline.AssertNotCalled(t, "Discard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("skipped files are reported", func(t *testing.T) {
		uc, repo, pipeline := newImageUsecase()

		skipped := []model.SkippedImage{{OriginalName: "b.gif", Code: "VALIDATION_ERROR", Message: "Only JPEG, PNG and WEBP images are allowed"}}
		repo.On("CountImages", ctx, media.CategoryCoffees, coffeeId, userId).Return(1, nil)
		pipeline.On("Ingest", ctx, media.CategoryCoffees, coffeeId, 1, uploads).
			Return(media.IngestResult{Saved: []media.SavedAsset{savedAsset("2-a.jpg")}, Skipped: skipped}, nil)
		repo.On("MutateImages", ctx, media.CategoryCoffees, coffeeId, userId).
			Return([]model.ImageAsset{storedImage("1-a.jpg", true)}, nil)

		resp, err := uc.Upload(ctx, media.CategoryCoffees, coffeeId, userId, uploads)
		require.NoError(t, err)

		require.Len(t, resp.Images, 2)
		assert.True(t, resp.Images[0].IsPrimary)
		assert.False(t, resp.Images[1].IsPrimary)
		assert.Equal(t, skipped, resp.Skipped)
	})

	t.Run("capacity lost under lock discards written files", func(t *testing.T) {
		uc, repo, pipeline := newImageUsecase()

		full := make([]model.ImageAsset, 0, 10)
		for i := 0; i < 10; i++ {
			full = append(full, storedImage("full.jpg", i == 0))
		}
		saved := []media.SavedAsset{savedAsset("3-a.jpg")}

		repo.On("CountImages", ctx, media.CategoryCoffees, coffeeId, userId).Return(9, nil)
		pipeline.On("Ingest", ctx, media.CategoryCoffees, coffeeId, 9, uploads).Return(media.IngestResult{Saved: saved}, nil)
		repo.On("MutateImages", ctx, media.CategoryCoffees, coffeeId, userId).Return(full, nil)
		pipeline.On("Discard", mock.Anything, media.CategoryCoffees, coffeeId, saved).Return()

		_, err := uc.Upload(ctx, media.CategoryCoffees, coffeeId, userId, uploads)

		var capacityErr *model.CapacityExceededError
		require.ErrorAs(t, err, &capacityErr)
		pipeline.AssertCalled(t, "Discard", mock.Anything, media.CategoryCoffees, coffeeId, saved)
	})

	t.Run("ingest failure writes nothing", func(t *testing.T) {
		uc, repo, pipeline := newImageUsecase()

		repo.On("CountImages", ctx, media.CategoryBrews, coffeeId, userId).Return(5, nil)
		pipeline.On("Ingest", ctx, media.CategoryBrews, coffeeId, 5, uploads).
			Return(media.IngestResult{}, &model.CapacityExceededError{Max: 5, Requested: 1, Existing: 5})

		_, err := uc.Upload(ctx, media.CategoryBrews, coffeeId, userId, uploads)

		var capacityErr *model.CapacityExceededError
		require.ErrorAs(t, err, &capacityErr)
		repo.AssertNotCalled(t, "MutateImages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("entity not owned", func(t *testing.T) {
		uc, repo, pipeline := newImageUsecase()

		repo.On("CountImages", ctx, media.CategoryCoffees, coffeeId, userId).Return(0, &model.NotFoundError{Resource: "Coffee", Param: "id"})

		_, err := uc.Upload(ctx, media.CategoryCoffees, coffeeId, userId, uploads)

		var notFound *model.NotFoundError
		require.ErrorAs(t, err, &notFound)
		pipeline.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestImageUsecase_Delete(t *testing.T) {
	ctx := context.Background()
	coffeeId := uuid.New()
	userId := uuid.New()

	t.Run("deleting the primary promotes the first remaining image", func(t *testing.T) {
		uc, repo, pipeline := newImageUsecase()

		a := storedImage("a.jpg", false)
		b := storedImage("b.jpg", true)
		c := storedImage("c.jpg", false)

		repo.On("MutateImages", ctx, media.CategoryCoffees, coffeeId, userId).Return([]model.ImageAsset{a, b, c}, nil)
		pipeline.On("Remove", mock.Anything, media.CategoryCoffees, coffeeId, "b.jpg").Return(nil)

		resp, err := uc.Delete(ctx, media.CategoryCoffees, coffeeId, userId, b.Id)
		require.NoError(t, err)

		assert.Equal(t, "Image deleted", resp.Message)
		require.Len(t, resp.Images, 2)
		assert.Equal(t, a.Id, resp.Images[0].Id)
		assert.True(t, resp.Images[0].IsPrimary)
		pipeline.AssertExpectations(t)
	})

	t.Run("file removal failure still succeeds", func(t *testing.T) {
		uc, repo, pipeline := newImageUsecase()

		a := storedImage("a.jpg", true)
		repo.On("MutateImages", ctx, media.CategoryCoffees, coffeeId, userId).Return([]model.ImageAsset{a}, nil)
		pipeline.On("Remove", mock.Anything, media.CategoryCoffees, coffeeId, "a.jpg").Return(errors.New("disk gone"))

		resp, err := uc.Delete(ctx, media.CategoryCoffees, coffeeId, userId, a.Id)
		require.NoError(t, err)
		assert.Empty(t, resp.Images)
	})

	t.Run("unknown image", func(t *testing.T) {
		uc, repo, pipeline := newImageUsecase()

		repo.On("MutateImages", ctx, media.CategoryCoffees, coffeeId, userId).Return([]model.ImageAsset{storedImage("a.jpg", true)}, nil)

		_, err := uc.Delete(ctx, media.CategoryCoffees, coffeeId, userId, uuid.New())

		var notFound *model.NotFoundError
		require.ErrorAs(t, err, &notFound)
		pipeline.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestImageUsecase_SetPrimary(t *testing.T) {
	ctx := context.Background()
	brewId := uuid.New()
	userId := uuid.New()

	uc, repo, _ := newImageUsecase()

	a := storedImage("a.jpg", true)
	b := storedImage("b.jpg", false)
	repo.On("MutateImages", ctx, media.CategoryBrews, brewId, userId).Return([]model.ImageAsset{a, b}, nil)

	resp, err := uc.SetPrimary(ctx, media.CategoryBrews, brewId, userId, b.Id)
	require.NoError(t, err)

	require.Len(t, resp.Images, 2)
	assert.False(t, resp.Images[0].IsPrimary)
	assert.True(t, resp.Images[1].IsPrimary)
}

func TestImageUsecase_UploadAvatar(t *testing.T) {
	ctx := context.Background()
	userId := uuid.New()
	upload := media.Upload{OriginalName: "me.png", ContentType: "image/png", Size: 3, Data: []byte{1, 2, 3}}

	t.Run("replaces and removes the previous avatar", func(t *testing.T) {
		uc, repo, pipeline := newImageUsecase()

		old := storedImage("old.jpg", true)
		pipeline.On("Ingest", ctx, media.CategoryAvatars, userId, 0, []media.Upload{upload}).
			Return(media.IngestResult{Saved: []media.SavedAsset{savedAsset("new.jpg")}}, nil)
		repo.On("MutateImages", ctx, media.CategoryAvatars, userId, userId).Return([]model.ImageAsset{old}, nil)
		pipeline.On("Remove", mock.Anything, media.CategoryAvatars, userId, "old.jpg").Return(nil)

		resp, err := uc.UploadAvatar(ctx, userId, upload)
		require.NoError(t, err)

		assert.Equal(t, "Avatar updated", resp.Message)
		require.NotNil(t, resp.Avatar)
		assert.Equal(t, "new.jpg", resp.Avatar.Filename)
		assert.True(t, resp.Avatar.IsPrimary)
		pipeline.AssertExpectations(t)
	})

	t.Run("ledger failure discards the new files", func(t *testing.T) {
		uc, repo, pipeline := newImageUsecase()

		saved := []media.SavedAsset{savedAsset("new.jpg")}
		pipeline.On("Ingest", ctx, media.CategoryAvatars, userId, 0, []media.Upload{upload}).Return(media.IngestResult{Saved: saved}, nil)
		repo.On("MutateImages", ctx, media.CategoryAvatars, userId, userId).Return(nil, &model.NotFoundError{Resource: "User", Param: "id"})
		pipeline.On("Discard", mock.Anything, media.CategoryAvatars, userId, saved).Return()

		_, err := uc.UploadAvatar(ctx, userId, upload)
		require.Error(t, err)
		pipeline.AssertExpectations(t)
	})
}

func TestImageUsecase_DeleteAvatar(t *testing.T) {
	ctx := context.Background()
	userId := uuid.New()

	t.Run("without avatar", func(t *testing.T) {
		uc, repo, pipeline := newImageUsecase()

		repo.On("MutateImages", ctx, media.CategoryAvatars, userId, userId).Return(nil, nil)

		resp, err := uc.DeleteAvatar(ctx, userId)
		require.NoError(t, err)
		assert.Equal(t, "Avatar removed", resp.Message)
		pipeline.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("with avatar", func(t *testing.T) {
		uc, repo, pipeline := newImageUsecase()

		repo.On("MutateImages", ctx, media.CategoryAvatars, userId, userId).Return([]model.ImageAsset{storedImage("me.jpg", true)}, nil)
		pipeline.On("Remove", mock.Anything, media.CategoryAvatars, userId, "me.jpg").Return(nil)

		_, err := uc.DeleteAvatar(ctx, userId)
		require.NoError(t, err)
		pipeline.AssertExpectations(t)
	})
}

func TestImageUsecase_RemoveEntityImages(t *testing.T) {
	uc, _, pipeline := newImageUsecase()
	brewId := uuid.New()

	pipeline.On("RemoveAll", mock.Anything, media.CategoryBrews, brewId).Return(errors.New("bucket unavailable"))

	assert.NotPanics(t, func() {
		uc.RemoveEntityImages(context.Background(), media.CategoryBrews, brewId)
	})
	pipeline.AssertExpectations(t)
}
