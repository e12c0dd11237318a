package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"healwise/cmd/fx/config_fx"
	"healwise/cmd/fx/controllers_fx"
	"healwise/cmd/fx/db_fx"
	"healwise/cmd/fx/generation_fx"
	"healwise/cmd/fx/payment_service_fx"
	"healwise/cmd/fx/planner_fx"
	"healwise/cmd/fx/profile_fx"
	"healwise/cmd/fx/quota_fx"
	"healwise/internal/api/controllers"
	"healwise/internal/config"
	"healwise/internal/models/request_models"
	"healwise/pkg/middleware"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		config_fx.Module,
		db_fx.Module,
		quota_fx.Module,
		profile_fx.Module,
		generation_fx.Module,
		planner_fx.Module,
		payment_service_fx.Module,
		controllers_fx.Module,

		fx.Invoke(request_models.RegisterValidators),
		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type routeParams struct {
	fx.In

	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Health   *controllers.HealthController
	Generate *controllers.GenerateController
	Planner  *controllers.PlannerController
	Profile  *controllers.ProfileController
	Payment  *controllers.PaymentController
}

func ProvideRouter(p routeParams) (*gin.Engine, error) {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Logger))
	r.Use(middleware.Recovery(p.Logger))
	r.Use(middleware.CORSMiddleware(p.Config.Server.AllowedOrigins))

	generateLimit, err := middleware.RateLimit(p.Config.RateLimit.Generate)
	if err != nil {
		return nil, err
	}

	RegisterRoutes(r, p, generateLimit)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, p routeParams, generateLimit gin.HandlerFunc) {
	r.GET("/health", p.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{})))

	// Stripe calls this without a bearer token; the signature authenticates it.
	r.POST("/payments/webhook", p.Payment.HandleWebhook)

	auth := r.Group("/")
	auth.Use(middleware.AccountMiddleware(middleware.AuthConfig{
		Secret:        []byte(p.Config.Auth.JWTSecret),
		Disabled:      p.Config.Auth.Disabled,
		DemoAccountID: p.Config.Auth.DemoAccountID,
	}))

	auth.POST("/generate", generateLimit, p.Generate.Generate)

	plannerGroup := auth.Group("/planner")
	plannerGroup.GET("", p.Planner.ListItems)
	plannerGroup.POST("", p.Planner.SaveItem)
	plannerGroup.DELETE("", p.Planner.ClearItems)
	plannerGroup.DELETE("/:id", p.Planner.RemoveItem)

	profileGroup := auth.Group("/profile")
	profileGroup.GET("", p.Profile.GetProfile)
	profileGroup.PUT("", p.Profile.UpdateProfile)
	profileGroup.POST("/plan", p.Profile.ChangePlan)

	auth.GET("/usage", p.Profile.GetUsage)

	paymentsGroup := auth.Group("/payments")
	paymentsGroup.POST("/checkout-session", p.Payment.CreateCheckoutSession)
	paymentsGroup.POST("/portal-session", p.Payment.CreatePortalSession)
}
