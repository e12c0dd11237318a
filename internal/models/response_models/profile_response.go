package response_models

import (
	"time"

	"healwise/internal/models/db_models"
)

type ProfileResponse struct {
	ID                 string                     `json:"id"`
	Email              string                     `json:"email"`
	DisplayName        string                     `json:"displayName"`
	Plan               db_models.SubscriptionTier `json:"plan"`
	Restrictions       string                     `json:"restrictions"`
	OnboardingComplete bool                       `json:"onboardingComplete"`
	CreatedAt          string                     `json:"createdAt"`
	UpdatedAt          string                     `json:"updatedAt"`
}

func NewProfileResponse(p *db_models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:                 p.ID,
		Email:              p.Email,
		DisplayName:        p.DisplayName,
		Plan:               db_models.ParseTier(string(p.Plan)),
		Restrictions:       p.Restrictions,
		OnboardingComplete: p.OnboardingComplete,
		CreatedAt:          unixToISO(p.CreatedAt),
		UpdatedAt:          unixToISO(p.UpdatedAt),
	}
}

func unixToISO(sec int64) string {
	if sec <= 0 {
		return ""
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}
