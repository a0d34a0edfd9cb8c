package constant

const (
	MAX_IMAGE_FILE_SIZE  = 10 * 1024 * 1024
	MAX_AVATAR_FILE_SIZE = 5 * 1024 * 1024

	MAX_COFFEE_IMAGES = 10
	MAX_BREW_IMAGES   = 5
	MAX_AVATAR_IMAGES = 1
)
