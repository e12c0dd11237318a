package profile_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"healwise/internal/api/controllers"
	"healwise/internal/repositories"
	"healwise/internal/services"
)

var Module = fx.Provide(
	provideProfileRepo, services.NewProfileService, controllers.NewProfileController)

func provideProfileRepo(db *gorm.DB) repositories.ProfileRepository {
	return repositories.NewProfileRepository(db)
}
