package models

// PaginatedResponse wraps one page of a listing. TotalPages is derived from
// Total and PageSize so clients never have to compute it.
type PaginatedResponse struct {
	Data       any  `json:"data"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
}

func NewPaginatedResponse(data any, total, page, pageSize int) PaginatedResponse {
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}

	return PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
		HasNext:    page < pages,
	}
}
