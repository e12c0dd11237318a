package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"healwise/internal/models/db_models"
	"healwise/internal/models/request_models"
	"healwise/internal/models/response_models"
	"healwise/internal/repositories"
	"healwise/pkg/utils"
)

// AccountEntitlement is what generation needs from a profile.
type AccountEntitlement struct {
	Tier         db_models.SubscriptionTier
	Restrictions string
}

type ProfileServiceInterface interface {
	GetProfile(ctx context.Context, accountID, email string) (response_models.ProfileResponse, error)
	UpdateProfile(ctx context.Context, accountID, email string, req request_models.UpdateProfileRequest) (response_models.ProfileResponse, error)
	ChangePlan(ctx context.Context, accountID, email string, tier db_models.SubscriptionTier) (response_models.ProfileResponse, error)
	ResolveEntitlement(ctx context.Context, accountID string) (AccountEntitlement, error)
}

type ProfileService struct {
	profileRepo repositories.ProfileRepository
	logger      *zap.Logger
}

func NewProfileService(profileRepo repositories.ProfileRepository, logger *zap.Logger) ProfileServiceInterface {
	return &ProfileService{
		profileRepo: profileRepo,
		logger:      logger.Named("profile"),
	}
}

// ensure loads the profile, creating a free one on first sight of the account.
func (s *ProfileService) ensure(ctx context.Context, accountID, email string) (*db_models.Profile, error) {
	profile, err := s.profileRepo.FindById(ctx, accountID)
	if err != nil {
		s.logger.Error("load profile", zap.String("account_id", accountID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	if profile == nil {
		seed := &db_models.Profile{
			ID:          accountID,
			Email:       email,
			DisplayName: displayNameFromEmail(email),
			Plan:        db_models.TierFree,
		}
		if err := s.profileRepo.Insert(ctx, seed); err != nil {
			s.logger.Error("create profile", zap.String("account_id", accountID), zap.Error(err))
			return nil, utils.ErrDatabaseError
		}
		if profile, err = s.profileRepo.FindById(ctx, accountID); err != nil || profile == nil {
			return nil, utils.ErrDatabaseError
		}
		s.logger.Info("profile created", zap.String("account_id", accountID))
	}

	if profile.Email == "" && email != "" {
		profile.Email = email
		if err := s.profileRepo.Save(ctx, profile); err != nil {
			return nil, utils.ErrDatabaseError
		}
	}
	return profile, nil
}

func displayNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return ""
}

func (s *ProfileService) GetProfile(ctx context.Context, accountID, email string) (response_models.ProfileResponse, error) {
	profile, err := s.ensure(ctx, accountID, email)
	if err != nil {
		return response_models.ProfileResponse{}, err
	}
	return response_models.NewProfileResponse(profile), nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, accountID, email string, req request_models.UpdateProfileRequest) (response_models.ProfileResponse, error) {
	profile, err := s.ensure(ctx, accountID, email)
	if err != nil {
		return response_models.ProfileResponse{}, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Restrictions != nil {
		profile.Restrictions = strings.TrimSpace(*req.Restrictions)
	}
	if req.OnboardingComplete != nil {
		profile.OnboardingComplete = *req.OnboardingComplete
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		s.logger.Error("save profile", zap.String("account_id", accountID), zap.Error(err))
		return response_models.ProfileResponse{}, utils.ErrDatabaseError
	}
	return response_models.NewProfileResponse(profile), nil
}

// ChangePlan only moves an account back to the free tier. Paid tiers are granted by the
// checkout webhook once payment has completed.
func (s *ProfileService) ChangePlan(ctx context.Context, accountID, email string, tier db_models.SubscriptionTier) (response_models.ProfileResponse, error) {
	if tier != db_models.TierFree {
		return response_models.ProfileResponse{}, utils.ErrInvalidPlan
	}

	profile, err := s.ensure(ctx, accountID, email)
	if err != nil {
		return response_models.ProfileResponse{}, err
	}

	if err := s.profileRepo.UpdatePlan(ctx, accountID, tier); err != nil {
		s.logger.Error("update plan", zap.String("account_id", accountID), zap.Error(err))
		return response_models.ProfileResponse{}, utils.ErrDatabaseError
	}
	profile.Plan = tier

	s.logger.Info("plan changed", zap.String("account_id", accountID), zap.String("plan", string(tier)))
	return response_models.NewProfileResponse(profile), nil
}

func (s *ProfileService) ResolveEntitlement(ctx context.Context, accountID string) (AccountEntitlement, error) {
	profile, err := s.ensure(ctx, accountID, "")
	if err != nil {
		return AccountEntitlement{}, err
	}
	return AccountEntitlement{
		Tier:         db_models.ParseTier(string(profile.Plan)),
		Restrictions: profile.Restrictions,
	}, nil
}
