package models

type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

const defaultPageSize = 10

// WithDefaults подставляет первую страницу и размер по умолчанию.
func (p Pagination) WithDefaults() Pagination {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	return p
}

type ProductFilter struct {
	OfferID    []string `json:"offer_id,omitempty"`
	ProductID  []int64  `json:"product_id,omitempty"`
	Visibility string   `json:"visibility,omitempty"`
}

type ListRequest struct {
	Filter *ProductFilter `json:"filter,omitempty"`
	Pagination
}

type PagedResult struct {
	Items []ProductPayload `json:"items"`
	Total int              `json:"total"`
}
