package payment_service_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"healwise/internal/api/controllers"
	"healwise/internal/config"
	"healwise/internal/models/db_models"
	"healwise/internal/repositories"
	"healwise/internal/services"
)

var Module = fx.Provide(
	provideSubscriptionRepo, providePaymentService, providePaymentController,
)

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func providePaymentService(cfg *config.Config, profileRepo repositories.ProfileRepository, subRepo repositories.SubscriptionRepository, log *zap.Logger) services.PaymentService {
	var gateway services.StripeGateway
	if cfg.Stripe.SecretKey != "" {
		gateway = services.NewStripeGateway(cfg.Stripe.SecretKey)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set; payment endpoints will fail")
	}

	return services.NewPaymentService(gateway, services.PaymentConfig{
		WebhookSecret: cfg.Stripe.WebhookSecret,
		SiteURL:       cfg.Stripe.SiteURL,
		Prices: map[db_models.PlanKey]string{
			db_models.PlanProMonth:     cfg.Stripe.Prices.ProMonth,
			db_models.PlanProYear:      cfg.Stripe.Prices.ProYear,
			db_models.PlanPremiumMonth: cfg.Stripe.Prices.PremiumMonth,
			db_models.PlanPremiumYear:  cfg.Stripe.Prices.PremiumYear,
		},
	}, profileRepo, subRepo, log)
}

func providePaymentController(paymentService services.PaymentService) *controllers.PaymentController {
	return controllers.NewPaymentController(paymentService)
}
