package content

import "time"

type CreateEntryRequest struct {
	Kind      string     `json:"kind" binding:"required"`
	Title     string     `json:"title" binding:"required"`
	Slug      string     `json:"slug"`
	Body      string     `json:"body"`
	FileURL   string     `json:"file_url"`
	EventDate *time.Time `json:"event_date"`
	Published bool       `json:"published"`
}

type UpdateEntryRequest struct {
	Title     *string    `json:"title"`
	Body      *string    `json:"body"`
	FileURL   *string    `json:"file_url"`
	EventDate *time.Time `json:"event_date"`
	Published *bool      `json:"published"`
}

type ListFilters struct {
	Kind      string `form:"kind"`
	Published *bool  `form:"published"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}
