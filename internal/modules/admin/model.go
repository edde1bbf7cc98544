package admin

// Stats summarises the whole platform for the admin dashboard.
type Stats struct {
	TotalRevenue     float64 `json:"total_revenue"`
	ActiveSellers    int     `json:"active_sellers"`
	SuspendedSellers int     `json:"suspended_sellers"`
	TotalProducts    int     `json:"total_products"`
	TotalCustomers   int     `json:"total_customers"`
	CommissionOwed   float64 `json:"commission_owed"`
}

// UpdateSellerStatusRequest is the payload for moderating a seller.
type UpdateSellerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended banned"`
}
