package request_models

type UpdateProfileRequest struct {
	DisplayName        *string `json:"displayName" binding:"omitempty,min=1"`
	Restrictions       *string `json:"restrictions"`
	OnboardingComplete *bool   `json:"onboardingComplete"`
}

type ChangePlanRequest struct {
	Plan string `json:"plan" binding:"required,tier"`
}
