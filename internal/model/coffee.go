package model

import (
	"time"

	"github.com/google/uuid"
)

var ProcessingMethods = []string{"Washed", "Natural", "Honey", "Semi-washed", "Other"}

var RoastLevels = []string{"Light", "Medium-Light", "Medium", "Medium-Dark", "Dark"}

type Coffee struct {
	Id               uuid.UUID
	Name             string
	Roaster          string
	Origin           string
	RoastDate        time.Time
	ProcessingMethod string
	RoastLevel       string
	Variety          *string
	Altitude         *string
	FlavorNotes      []string
	Price            *float64
	Barcode          *string
	AddedBy          uuid.UUID
	IsPublic         bool
	Images           []ImageAsset
	CreateDatetime   time.Time
	UpdateDatetime   time.Time
}

type CoffeeCreateRequest struct {
	Name             string   `json:"name"`
	Roaster          string   `json:"roaster"`
	Origin           string   `json:"origin"`
	RoastDate        string   `json:"roastDate"`
	ProcessingMethod string   `json:"processingMethod"`
	RoastLevel       string   `json:"roastLevel"`
	Variety          *string  `json:"variety"`
	Altitude         *string  `json:"altitude"`
	FlavorNotes      []string `json:"flavorNotes"`
	Price            *float64 `json:"price"`
	Barcode          *string  `json:"barcode"`
	IsPublic         bool     `json:"isPublic"`
}

type CoffeeUpdateRequest struct {
	Name             *string   `json:"name"`
	Roaster          *string   `json:"roaster"`
	Origin           *string   `json:"origin"`
	RoastDate        *string   `json:"roastDate"`
	ProcessingMethod *string   `json:"processingMethod"`
	RoastLevel       *string   `json:"roastLevel"`
	Variety          *string   `json:"variety"`
	Altitude         *string   `json:"altitude"`
	FlavorNotes      *[]string `json:"flavorNotes"`
	Price            *float64  `json:"price"`
	Barcode          *string   `json:"barcode"`
	IsPublic         *bool     `json:"isPublic"`
}

type CoffeeListFilter struct {
	UserId   uuid.UUID
	OnlyMine bool
	Search   string
	Roaster  string
	Origin   string
	SortBy   string
	Order    string
	Page     PageRequest
}

type CoffeeResponse struct {
	Id               uuid.UUID    `json:"id"`
	Name             string       `json:"name"`
	Roaster          string       `json:"roaster"`
	Origin           string       `json:"origin"`
	RoastDate        string       `json:"roastDate"`
	ProcessingMethod string       `json:"processingMethod"`
	RoastLevel       string       `json:"roastLevel"`
	Variety          *string      `json:"variety"`
	Altitude         *string      `json:"altitude"`
	FlavorNotes      []string     `json:"flavorNotes"`
	Price            *float64     `json:"price"`
	Barcode          *string      `json:"barcode"`
	AddedBy          UserSummary  `json:"addedBy"`
	IsPublic         bool         `json:"isPublic"`
	Images           []ImageAsset `json:"images"`
	PrimaryImage     *ImageAsset  `json:"primaryImage"`
	UserBrewCount    *int         `json:"userBrewCount,omitempty"`
	BrewStats        *BrewStats   `json:"brewStats,omitempty"`
	CreateDatetime   time.Time    `json:"createDatetime"`
	UpdateDatetime   time.Time    `json:"updateDatetime"`
}

type BrewStats struct {
	TotalBrews    int      `json:"totalBrews"`
	AverageRating float64  `json:"averageRating"`
	BrewMethods   []string `json:"brewMethods"`
}

type CoffeeListResponse struct {
	Coffees     []CoffeeResponse `json:"coffees"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	Total       int              `json:"total"`
}

type PopularCoffee struct {
	Coffee        CoffeeResponse `json:"coffee"`
	BrewCount     int            `json:"brewCount"`
	AverageRating float64        `json:"averageRating"`
}

type CoffeeSuggestion struct {
	Id      uuid.UUID `json:"id"`
	Name    string    `json:"name,omitempty"`
	Roaster string    `json:"roaster,omitempty"`
	Origin  string    `json:"origin,omitempty"`
}

type CountByLabel struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type CoffeeStatsSummary struct {
	TotalCoffees int     `json:"totalCoffees"`
	TotalSpent   float64 `json:"totalSpent"`
	AveragePrice float64 `json:"averagePrice"`
}

type CoffeeStatsResponse struct {
	Summary                CoffeeStatsSummary `json:"summary"`
	RoastLevelDistribution []CountByLabel     `json:"roastLevelDistribution"`
	OriginDistribution     []CountByLabel     `json:"originDistribution"`
}
