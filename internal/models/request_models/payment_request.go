package request_models

type CreateCheckoutRequest struct {
	Plan string `json:"plan" binding:"required,oneof=pro_month pro_year premium_month premium_year"`
}

type CreatePortalRequest struct {
	Email string `json:"email" binding:"required,email"`
}
