package models

// Product represents a single inventory item.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Stock    int64   `json:"stock"`
	Status   string  `json:"status"`
	Image    *string `json:"image"` // Nullable in the store
}

// Pagination describes one page of a listing result.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ProductPage is the paginated listing response body.
type ProductPage struct {
	Data       []Product  `json:"data"`
	Pagination Pagination `json:"pagination"`
}
