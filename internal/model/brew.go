package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var BrewMethods = []string{"Espresso", "Pour Over", "French Press", "Aeropress", "Cold Brew", "Moka Pot", "Chemex", "V60", "Kalita Wave", "Siphon", "Drip", "Other"}

var GrindSizes = []string{"Extra Fine", "Fine", "Medium-Fine", "Medium", "Medium-Coarse", "Coarse", "Extra Coarse"}

type BrewRatio struct {
	Coffee float64 `json:"coffee"`
	Water  float64 `json:"water"`
}

// String renders the ratio as 1:{water/coffee}, empty when either side is zero.
func (ratio BrewRatio) String() string {
	if ratio.Coffee == 0 || ratio.Water == 0 {
		return ""
	}
	return fmt.Sprintf("1:%.1f", ratio.Water/ratio.Coffee)
}

type BrewExtras struct {
	BloomTime     *int     `json:"bloomTime,omitempty"`
	NumberOfPours *int     `json:"numberOfPours,omitempty"`
	Pressure      *float64 `json:"pressure,omitempty"`
	Yield         *float64 `json:"yield,omitempty"`
	WaterType     *string  `json:"waterType,omitempty"`
	Grinder       *string  `json:"grinder,omitempty"`
	Modifications *string  `json:"modifications,omitempty"`
}

type Brew struct {
	Id              uuid.UUID
	CoffeeId        uuid.UUID
	UserId          uuid.UUID
	BrewMethod      string
	BrewTemperature float64
	BrewRatio       BrewRatio
	GrindSize       string
	BrewTime        *int
	Rating          int
	Notes           *string
	FlavorNotes     []string
	IsPublic        bool
	Extras          BrewExtras
	Images          []ImageAsset
	CreateDatetime  time.Time
	UpdateDatetime  time.Time
}

type BrewCreateRequest struct {
	CoffeeId        string     `json:"coffee"`
	BrewMethod      string     `json:"brewMethod"`
	BrewTemperature *float64   `json:"brewTemperature"`
	BrewRatio       *BrewRatio `json:"brewRatio"`
	GrindSize       string     `json:"grindSize"`
	BrewTime        *int       `json:"brewTime"`
	Rating          int        `json:"rating"`
	Notes           *string    `json:"notes"`
	FlavorNotes     []string   `json:"flavorNotes"`
	IsPublic        bool       `json:"isPublic"`
	Extras          BrewExtras `json:"extras"`
}

type BrewUpdateRequest struct {
	BrewMethod      *string     `json:"brewMethod"`
	BrewTemperature *float64    `json:"brewTemperature"`
	BrewRatio       *BrewRatio  `json:"brewRatio"`
	GrindSize       *string     `json:"grindSize"`
	BrewTime        *int        `json:"brewTime"`
	Rating          *int        `json:"rating"`
	Notes           *string     `json:"notes"`
	FlavorNotes     *[]string   `json:"flavorNotes"`
	IsPublic        *bool       `json:"isPublic"`
	Extras          *BrewExtras `json:"extras"`
}

type BrewListFilter struct {
	UserId     *uuid.UUID
	ViewerId   uuid.UUID
	CoffeeId   *uuid.UUID
	PublicOnly bool
	BrewMethod string
	MinRating  int
	MaxRating  int
	SortBy     string
	Order      string
	Page       PageRequest
}

type BrewCoffeeSummary struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Roaster     string    `json:"roaster"`
	Origin      string    `json:"origin"`
	RoastDate   string    `json:"roastDate"`
	FlavorNotes []string  `json:"flavorNotes"`
}

type BrewResponse struct {
	Id              uuid.UUID         `json:"id"`
	Coffee          BrewCoffeeSummary `json:"coffee"`
	User            UserSummary       `json:"user"`
	BrewMethod      string            `json:"brewMethod"`
	BrewTemperature float64           `json:"brewTemperature"`
	BrewRatio       BrewRatio         `json:"brewRatio"`
	BrewRatioString string            `json:"brewRatioString"`
	GrindSize       string            `json:"grindSize"`
	BrewTime        *int              `json:"brewTime"`
	Rating          int               `json:"rating"`
	Notes           *string           `json:"notes"`
	FlavorNotes     []string          `json:"flavorNotes"`
	IsPublic        bool              `json:"isPublic"`
	Extras          BrewExtras        `json:"extras"`
	Images          []ImageAsset      `json:"images"`
	PrimaryImage    *ImageAsset       `json:"primaryImage"`
	LikesCount      int               `json:"likesCount"`
	LikedByMe       bool              `json:"likedByMe"`
	CreateDatetime  time.Time         `json:"createDatetime"`
	UpdateDatetime  time.Time         `json:"updateDatetime"`
}

type BrewListResponse struct {
	Brews       []BrewResponse `json:"brews"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	Total       int            `json:"total"`
}

type BrewLikeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

type BrewSummaryStats struct {
	TotalBrews         int     `json:"totalBrews"`
	AverageRating      float64 `json:"averageRating"`
	FavoriteBrewMethod string  `json:"favoriteBrewMethod"`
}

type TemperatureStats struct {
	BrewMethod string  `json:"brewMethod"`
	AvgTemp    float64 `json:"avgTemp"`
	MinTemp    float64 `json:"minTemp"`
	MaxTemp    float64 `json:"maxTemp"`
}

type BrewStatsResponse struct {
	Summary                BrewSummaryStats   `json:"summary"`
	BrewMethodDistribution []CountByLabel     `json:"brewMethodDistribution"`
	TemperatureStats       []TemperatureStats `json:"temperatureStats"`
}
