package model

type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

func TotalPages(total int, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

type MessageResponse struct {
	Message string `json:"message"`
}
