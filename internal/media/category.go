package media

import (
	"github.com/ferdian3456/brewlog/internal/constant"
)

type Category string

const (
	CategoryCoffees Category = "coffees"
	CategoryBrews   Category = "brews"
	CategoryAvatars Category = "avatars"
)

// Policy holds the upload limits of a category. Replace means the batch
// supersedes whatever the entity currently holds.
type Policy struct {
	Category    Category
	MaxFileSize int64
	Capacity    int
	Replace     bool
}

var policies = map[Category]Policy{
	CategoryCoffees: {Category: CategoryCoffees, MaxFileSize: constant.MAX_IMAGE_FILE_SIZE, Capacity: constant.MAX_COFFEE_IMAGES},
	CategoryBrews:   {Category: CategoryBrews, MaxFileSize: constant.MAX_IMAGE_FILE_SIZE, Capacity: constant.MAX_BREW_IMAGES},
	CategoryAvatars: {Category: CategoryAvatars, MaxFileSize: constant.MAX_AVATAR_FILE_SIZE, Capacity: constant.MAX_AVATAR_IMAGES, Replace: true},
}

func PolicyFor(category Category) (Policy, bool) {
	policy, ok := policies[category]
	return policy, ok
}
