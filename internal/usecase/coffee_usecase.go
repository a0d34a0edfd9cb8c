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

const (
	DefaultPopularLimit      = 10
	MaxPopularLimit          = 50
	AutocompleteLimit        = 10
	AutocompleteMinimumQuery = 2
)

type CoffeeUsecase struct {
	CoffeeRepository *repository.CoffeeRepository
	ImageUsecase     *ImageUsecase
	Log              *zap.Logger
}

func NewCoffeeUsecase(coffeeRepository *repository.CoffeeRepository, imageUsecase *ImageUsecase, zap *zap.Logger) *CoffeeUsecase {
	return &CoffeeUsecase{
		CoffeeRepository: coffeeRepository,
		ImageUsecase:     imageUsecase,
		Log:              zap,
	}
}

func validateCoffee(coffee model.Coffee) error {
	err := requireText(coffee.Name, "name", "Name")
	if err != nil {
		return err
	}

	err = requireText(coffee.Roaster, "roaster", "Roaster")
	if err != nil {
		return err
	}

	err = requireText(coffee.Origin, "origin", "Origin")
	if err != nil {
		return err
	}

	err = requireOneOf(coffee.ProcessingMethod, model.ProcessingMethods, "processingMethod", "Processing method")
	if err != nil {
		return err
	}

	err = requireOneOf(coffee.RoastLevel, model.RoastLevels, "roastLevel", "Roast level")
	if err != nil {
		return err
	}

	if coffee.Price != nil && *coffee.Price < 0 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Price must not be negative",
			Param:   "price",
		}
	}

	return nil
}

func (usecase *CoffeeUsecase) CreateCoffee(ctx context.Context, userId uuid.UUID, payload model.CoffeeCreateRequest) (model.CoffeeResponse, error) {
	if payload.RoastDate == "" {
		return model.CoffeeResponse{}, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Roast date is required to not be empty",
			Param:   "roastDate",
		}
	}

	roastDate, err := parseDate(payload.RoastDate, "roastDate")
	if err != nil {
		return model.CoffeeResponse{}, err
	}

	if payload.ProcessingMethod == "" {
		payload.ProcessingMethod = "Other"
	}
	if payload.RoastLevel == "" {
		payload.RoastLevel = "Medium"
	}

	now := time.Now().UTC()
	coffee := model.Coffee{
		Id:               uuid.New(),
		Name:             strings.TrimSpace(payload.Name),
		Roaster:          strings.TrimSpace(payload.Roaster),
		Origin:           strings.TrimSpace(payload.Origin),
		RoastDate:        roastDate,
		ProcessingMethod: payload.ProcessingMethod,
		RoastLevel:       payload.RoastLevel,
		Variety:          trimOptional(payload.Variety),
		Altitude:         trimOptional(payload.Altitude),
		FlavorNotes:      cleanNotes(payload.FlavorNotes),
		Price:            payload.Price,
		Barcode:          trimOptional(payload.Barcode),
		AddedBy:          userId,
		IsPublic:         payload.IsPublic,
		CreateDatetime:   now,
		UpdateDatetime:   now,
	}

	err = validateCoffee(coffee)
	if err != nil {
		return model.CoffeeResponse{}, err
	}

	similar, err := usecase.CoffeeRepository.FindSimilarCoffee(ctx, coffee.Name, coffee.Roaster, coffee.Origin, userId, coffee.Id)
	if err != nil {
		return model.CoffeeResponse{}, err
	}
	if similar {
		return model.CoffeeResponse{}, &model.ConflictError{Message: "Similar coffee already exists", Param: "name"}
	}

	err = usecase.CoffeeRepository.CreateCoffee(ctx, coffee)
	if err != nil {
		return model.CoffeeResponse{}, err
	}

	return usecase.CoffeeRepository.GetCoffeeResponse(ctx, coffee.Id, userId)
}

// GetCoffee returns a coffee visible to the viewer with its public brew stats.
func (usecase *CoffeeUsecase) GetCoffee(ctx context.Context, coffeeId uuid.UUID, userId uuid.UUID) (model.CoffeeResponse, error) {
	coffee, err := usecase.CoffeeRepository.GetCoffeeResponse(ctx, coffeeId, userId)
	if err != nil {
		return coffee, err
	}

	if !coffee.IsPublic && coffee.AddedBy.Id != userId {
		return model.CoffeeResponse{}, &model.ForbiddenError{Message: "Access denied"}
	}

	stats, err := usecase.CoffeeRepository.GetBrewStats(ctx, coffeeId)
	if err != nil {
		return model.CoffeeResponse{}, err
	}
	coffee.BrewStats = &stats

	return coffee, nil
}

func (usecase *CoffeeUsecase) ListCoffees(ctx context.Context, filter model.CoffeeListFilter) (model.CoffeeListResponse, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Roaster = strings.TrimSpace(filter.Roaster)
	filter.Origin = strings.TrimSpace(filter.Origin)

	coffees, total, err := usecase.CoffeeRepository.ListCoffees(ctx, filter)
	if err != nil {
		return model.CoffeeListResponse{}, err
	}

	return model.CoffeeListResponse{
		Coffees:     coffees,
		TotalPages:  model.TotalPages(total, filter.Page.Limit),
		CurrentPage: filter.Page.Page,
		Total:       total,
	}, nil
}

func (usecase *CoffeeUsecase) UpdateCoffee(ctx context.Context, coffeeId uuid.UUID, userId uuid.UUID, payload model.CoffeeUpdateRequest) (model.CoffeeResponse, error) {
	coffee, err := usecase.CoffeeRepository.GetCoffee(ctx, coffeeId)
	if err != nil {
		return model.CoffeeResponse{}, err
	}

	if coffee.AddedBy != userId {
		return model.CoffeeResponse{}, &model.NotFoundError{Resource: "Coffee", Param: "id"}
	}

	if payload.Name != nil {
		coffee.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Roaster != nil {
		coffee.Roaster = strings.TrimSpace(*payload.Roaster)
	}
	if payload.Origin != nil {
		coffee.Origin = strings.TrimSpace(*payload.Origin)
	}
	if payload.RoastDate != nil {
		coffee.RoastDate, err = parseDate(*payload.RoastDate, "roastDate")
		if err != nil {
			return model.CoffeeResponse{}, err
		}
	}
	if payload.ProcessingMethod != nil {
		coffee.ProcessingMethod = *payload.ProcessingMethod
	}
	if payload.RoastLevel != nil {
		coffee.RoastLevel = *payload.RoastLevel
	}
	if payload.Variety != nil {
		coffee.Variety = trimOptional(payload.Variety)
	}
	if payload.Altitude != nil {
		coffee.Altitude = trimOptional(payload.Altitude)
	}
	if payload.FlavorNotes != nil {
		coffee.FlavorNotes = cleanNotes(*payload.FlavorNotes)
	}
	if payload.Price != nil {
		coffee.Price = payload.Price
	}
	if payload.Barcode != nil {
		coffee.Barcode = trimOptional(payload.Barcode)
	}
	if payload.IsPublic != nil {
		coffee.IsPublic = *payload.IsPublic
	}

	err = validateCoffee(coffee)
	if err != nil {
		return model.CoffeeResponse{}, err
	}

	coffee.UpdateDatetime = time.Now().UTC()
	err = usecase.CoffeeRepository.UpdateCoffee(ctx, coffee)
	if err != nil {
		return model.CoffeeResponse{}, err
	}

	return usecase.CoffeeRepository.GetCoffeeResponse(ctx, coffeeId, userId)
}

// DeleteCoffee refuses while brews still reference the coffee.
func (usecase *CoffeeUsecase) DeleteCoffee(ctx context.Context, coffeeId uuid.UUID, userId uuid.UUID) (model.MessageResponse, error) {
	coffee, err := usecase.CoffeeRepository.GetCoffee(ctx, coffeeId)
	if err != nil {
		return model.MessageResponse{}, err
	}

	if coffee.AddedBy != userId {
		return model.MessageResponse{}, &model.NotFoundError{Resource: "Coffee", Param: "id"}
	}

	deleted, err := usecase.CoffeeRepository.DeleteCoffee(ctx, coffeeId, userId)
	if err != nil {
		return model.MessageResponse{}, err
	}
	if !deleted {
		return model.MessageResponse{}, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Cannot delete coffee with existing brews",
			Param:   "id",
		}
	}

	usecase.ImageUsecase.RemoveEntityImages(ctx, media.CategoryCoffees, coffeeId)

	return model.MessageResponse{Message: "Coffee deleted successfully"}, nil
}

func (usecase *CoffeeUsecase) GetPopularCoffees(ctx context.Context, limit int) ([]model.PopularCoffee, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	} else if limit > MaxPopularLimit {
		limit = MaxPopularLimit
	}

	return usecase.CoffeeRepository.GetPopularCoffees(ctx, limit)
}

func (usecase *CoffeeUsecase) Autocomplete(ctx context.Context, userId uuid.UUID, search string, field string) ([]model.CoffeeSuggestion, error) {
	search = strings.TrimSpace(search)
	if len(search) < AutocompleteMinimumQuery {
		return []model.CoffeeSuggestion{}, nil
	}

	return usecase.CoffeeRepository.Autocomplete(ctx, search, field, userId, AutocompleteLimit)
}

func (usecase *CoffeeUsecase) GetCoffeeStats(ctx context.Context, userId uuid.UUID) (model.CoffeeStatsResponse, error) {
	return usecase.CoffeeRepository.GetCoffeeStats(ctx, userId)
}
