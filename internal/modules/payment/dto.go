package payment

type InitializePaymentRequest struct {
	BookingID int64  `json:"booking_id" binding:"required" validate:"required,gt=0"`
	Email     string `json:"email" binding:"required" validate:"required,email"`
}

type InitializePaymentResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type ListMeta struct {
	TotalRecords int64 `json:"total_records"`
	TotalPages   int   `json:"total_pages"`
	CurrentPage  int   `json:"current_page"`
	PageSize     int   `json:"page_size"`
}
