package booking

import "time"

type CreateBookingRequest struct {
	ListingID   int64     `json:"listing_id" binding:"required" validate:"required,gt=0"`
	Location    string    `json:"location" binding:"required" validate:"required"`
	Note        string    `json:"note"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListMeta struct {
	TotalRecords int64 `json:"total_records"`
	TotalPages   int   `json:"total_pages"`
	CurrentPage  int   `json:"current_page"`
	PageSize     int   `json:"page_size"`
}
