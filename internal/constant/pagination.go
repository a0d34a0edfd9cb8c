package constant

const (
	DEFAULT_PAGE_LIMIT = 50
	MAX_PAGE_LIMIT     = 100
)
