package models

// Room is a bookable resource with a fixed headcount capacity. Immutable for
// the duration of an allocation run.
type Room struct {
	ID       string `db:"id" json:"id"`
	Capacity int    `db:"capacity" json:"capacity"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
