package planner_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"healwise/internal/api/controllers"
	"healwise/internal/repositories"
	"healwise/internal/services"
)

var Module = fx.Provide(providePlannerRepo, providePlannerService, controllers.NewPlannerController)

func providePlannerRepo(db *gorm.DB) repositories.PlannerRepository {
	return repositories.NewPlannerRepository(db)
}

func providePlannerService(plannerRepo repositories.PlannerRepository, log *zap.Logger) services.PlannerServiceInterface {
	return services.NewPlannerService(plannerRepo, log)
}
