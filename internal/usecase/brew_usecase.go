package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/media"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/ferdian3456/brewlog/internal/repository"
	"github.com/google/uuid"

	"go.uber.org/zap"
)

const MaxNotesLength = 1000

type BrewUsecase struct {
	BrewRepository   *repository.BrewRepository
	CoffeeRepository *repository.CoffeeRepository
	ImageUsecase     *ImageUsecase
	Log              *zap.Logger
}

func NewBrewUsecase(brewRepository *repository.BrewRepository, coffeeRepository *repository.CoffeeRepository, imageUsecase *ImageUsecase, zap *zap.Logger) *BrewUsecase {
	return &BrewUsecase{
		BrewRepository:   brewRepository,
		CoffeeRepository: coffeeRepository,
		ImageUsecase:     imageUsecase,
		Log:              zap,
	}
}

func validateBrew(brew model.Brew) error {
	err := requireOneOf(brew.BrewMethod, model.BrewMethods, "brewMethod", "Brew method")
	if err != nil {
		return err
	}

	if brew.BrewTemperature < 0 || brew.BrewTemperature > 100 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Brew temperature must be between 0 and 100",
			Param:   "brewTemperature",
		}
	}

	if brew.BrewRatio.Coffee <= 0 || brew.BrewRatio.Water <= 0 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Brew ratio requires positive coffee and water amounts",
			Param:   "brewRatio",
		}
	}

	err = requireOneOf(brew.GrindSize, model.GrindSizes, "grindSize", "Grind size")
	if err != nil {
		return err
	}

	if brew.BrewTime != nil && *brew.BrewTime < 0 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Brew time must not be negative",
			Param:   "brewTime",
		}
	}

	if brew.Rating < 1 || brew.Rating > 10 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Rating must be between 1 and 10",
			Param:   "rating",
		}
	}

	if brew.Notes != nil && len(*brew.Notes) > MaxNotesLength {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Notes must be at most 1000 characters",
			Param:   "notes",
		}
	}

	return nil
}

func (usecase *BrewUsecase) CreateBrew(ctx context.Context, userId uuid.UUID, payload model.BrewCreateRequest) (model.BrewResponse, error) {
	coffeeId, err := uuid.Parse(payload.CoffeeId)
	if err != nil {
		return model.BrewResponse{}, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Coffee is required to be a valid id",
			Param:   "coffee",
		}
	}

	if payload.BrewTemperature == nil {
		return model.BrewResponse{}, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Brew temperature is required",
			Param:   "brewTemperature",
		}
	}

	if payload.BrewRatio == nil {
		return model.BrewResponse{}, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Brew ratio is required",
			Param:   "brewRatio",
		}
	}

	now := time.Now().UTC()
	brew := model.Brew{
		Id:              uuid.New(),
		CoffeeId:        coffeeId,
		UserId:          userId,
		BrewMethod:      payload.BrewMethod,
		BrewTemperature: *payload.BrewTemperature,
		BrewRatio:       *payload.BrewRatio,
		GrindSize:       payload.GrindSize,
		BrewTime:        payload.BrewTime,
		Rating:          payload.Rating,
		Notes:           trimOptional(payload.Notes),
		FlavorNotes:     cleanNotes(payload.FlavorNotes),
		IsPublic:        payload.IsPublic,
		Extras:          payload.Extras,
		CreateDatetime:  now,
		UpdateDatetime:  now,
	}

	err = validateBrew(brew)
	if err != nil {
		return model.BrewResponse{}, err
	}

	coffee, err := usecase.CoffeeRepository.GetCoffee(ctx, coffeeId)
	if err != nil {
		return model.BrewResponse{}, err
	}

	if !coffee.IsPublic && coffee.AddedBy != userId {
		return model.BrewResponse{}, &model.NotFoundError{Resource: "Coffee", Param: "coffee"}
	}

	err = usecase.BrewRepository.CreateBrew(ctx, brew)
	if err != nil {
		return model.BrewResponse{}, err
	}

	return usecase.BrewRepository.GetBrewResponse(ctx, brew.Id, userId)
}

// GetBrew returns a public brew, or a private one to its owner. viewerId is
// uuid.Nil for anonymous requests.
func (usecase *BrewUsecase) GetBrew(ctx context.Context, brewId uuid.UUID, viewerId uuid.UUID) (model.BrewResponse, error) {
	brew, err := usecase.BrewRepository.GetBrewResponse(ctx, brewId, viewerId)
	if err != nil {
		return brew, err
	}

	if !brew.IsPublic && (viewerId == uuid.Nil || brew.User.Id != viewerId) {
		return model.BrewResponse{}, &model.ForbiddenError{Message: "Access denied"}
	}

	return brew, nil
}

func (usecase *BrewUsecase) ListBrews(ctx context.Context, filter model.BrewListFilter) (model.BrewListResponse, error) {
	filter.BrewMethod = normalizeBrewMethod(filter.BrewMethod)
	if filter.BrewMethod != "" {
		err := requireOneOf(filter.BrewMethod, model.BrewMethods, "brewMethod", "Brew method")
		if err != nil {
			return model.BrewListResponse{}, err
		}
	}

	brews, total, err := usecase.BrewRepository.ListBrews(ctx, filter)
	if err != nil {
		return model.BrewListResponse{}, err
	}

	return model.BrewListResponse{
		Brews:       brews,
		TotalPages:  model.TotalPages(total, filter.Page.Limit),
		CurrentPage: filter.Page.Page,
		Total:       total,
	}, nil
}

// ListCoffeePublicBrews lists the public brews of a coffee the viewer can see.
func (usecase *BrewUsecase) ListCoffeePublicBrews(ctx context.Context, coffeeId uuid.UUID, filter model.BrewListFilter) (model.BrewListResponse, error) {
	coffee, err := usecase.CoffeeRepository.GetCoffee(ctx, coffeeId)
	if err != nil {
		return model.BrewListResponse{}, err
	}

	if !coffee.IsPublic && coffee.AddedBy != filter.ViewerId {
		return model.BrewListResponse{}, &model.ForbiddenError{Message: "Access denied"}
	}

	filter.CoffeeId = &coffeeId
	filter.PublicOnly = true

	return usecase.ListBrews(ctx, filter)
}

func (usecase *BrewUsecase) UpdateBrew(ctx context.Context, brewId uuid.UUID, userId uuid.UUID, payload model.BrewUpdateRequest) (model.BrewResponse, error) {
	brew, err := usecase.BrewRepository.GetBrew(ctx, brewId)
	if err != nil {
		return model.BrewResponse{}, err
	}

	if brew.UserId != userId {
		return model.BrewResponse{}, &model.NotFoundError{Resource: "Brew", Param: "id"}
	}

	if payload.BrewMethod != nil {
		brew.BrewMethod = *payload.BrewMethod
	}
	if payload.BrewTemperature != nil {
		brew.BrewTemperature = *payload.BrewTemperature
	}
	if payload.BrewRatio != nil {
		brew.BrewRatio = *payload.BrewRatio
	}
	if payload.GrindSize != nil {
		brew.GrindSize = *payload.GrindSize
	}
	if payload.BrewTime != nil {
		brew.BrewTime = payload.BrewTime
	}
	if payload.Rating != nil {
		brew.Rating = *payload.Rating
	}
	if payload.Notes != nil {
		brew.Notes = trimOptional(payload.Notes)
	}
	if payload.FlavorNotes != nil {
		brew.FlavorNotes = cleanNotes(*payload.FlavorNotes)
	}
	if payload.IsPublic != nil {
		brew.IsPublic = *payload.IsPublic
	}
	if payload.Extras != nil {
		brew.Extras = *payload.Extras
	}

	err = validateBrew(brew)
	if err != nil {
		return model.BrewResponse{}, err
	}

	brew.UpdateDatetime = time.Now().UTC()
	err = usecase.BrewRepository.UpdateBrew(ctx, brew)
	if err != nil {
		return model.BrewResponse{}, err
	}

	return usecase.BrewRepository.GetBrewResponse(ctx, brewId, userId)
}

func (usecase *BrewUsecase) DeleteBrew(ctx context.Context, brewId uuid.UUID, userId uuid.UUID) (model.MessageResponse, error) {
	err := usecase.BrewRepository.DeleteBrew(ctx, brewId, userId)
	if err != nil {
		return model.MessageResponse{}, err
	}

	usecase.ImageUsecase.RemoveEntityImages(ctx, media.CategoryBrews, brewId)

	return model.MessageResponse{Message: "Brew deleted successfully"}, nil
}

// ToggleLike likes or unlikes a brew that is public or owned by the user.
func (usecase *BrewUsecase) ToggleLike(ctx context.Context, brewId uuid.UUID, userId uuid.UUID) (model.BrewLikeResponse, error) {
	brew, err := usecase.BrewRepository.GetBrew(ctx, brewId)
	if err != nil {
		return model.BrewLikeResponse{}, err
	}

	if !brew.IsPublic && brew.UserId != userId {
		return model.BrewLikeResponse{}, &model.ForbiddenError{Message: "Cannot like a private brew"}
	}

	liked, count, err := usecase.BrewRepository.ToggleLike(ctx, brewId, userId)
	if err != nil {
		return model.BrewLikeResponse{}, err
	}

	return model.BrewLikeResponse{Liked: liked, LikesCount: count}, nil
}

func (usecase *BrewUsecase) GetBrewStats(ctx context.Context, userId uuid.UUID) (model.BrewStatsResponse, error) {
	return usecase.BrewRepository.GetBrewStats(ctx, userId)
}

func normalizeBrewMethod(method string) string {
	method = strings.TrimSpace(method)
	for _, known := range model.BrewMethods {
		if strings.EqualFold(known, method) {
			return known
		}
	}
	return method
}
