package util

import (
	"strings"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"

	"github.com/gofiber/fiber/v2"
)

// ReadPageRequest reads page and limit from the query string. Out of range
// values fall back to the defaults; limit is capped at MAX_PAGE_LIMIT.
func ReadPageRequest(ctx *fiber.Ctx, defaultLimit int) model.PageRequest {
	page := ctx.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	limit := ctx.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > constant.MAX_PAGE_LIMIT {
		limit = constant.MAX_PAGE_LIMIT
	}

	return model.PageRequest{Page: page, Limit: limit}
}

func ReadSortOrder(ctx *fiber.Ctx) string {
	if strings.ToLower(ctx.Query("order")) == "asc" {
		return "asc"
	}
	return "desc"
}
