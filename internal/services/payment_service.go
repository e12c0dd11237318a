package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"healwise/internal/models/db_models"
	"healwise/internal/models/response_models"
	"healwise/internal/repositories"
	"healwise/pkg/utils"
)

const paymentProvider = "stripe"

// StripeGateway is the slice of the Stripe API the payment flow uses.
type StripeGateway interface {
	NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	FindCustomerByEmail(email string) (*stripe.Customer, error)
	NewCustomer(params *stripe.CustomerParams) (*stripe.Customer, error)
	NewPortalSession(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error)
}

type stripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeGateway{api: api}
}

func (g *stripeGateway) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return g.api.CheckoutSessions.New(params)
}

func (g *stripeGateway) FindCustomerByEmail(email string) (*stripe.Customer, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Limit = stripe.Int64(1)

	it := g.api.Customers.List(params)
	if it.Next() {
		return it.Customer(), nil
	}
	return nil, it.Err()
}

func (g *stripeGateway) NewCustomer(params *stripe.CustomerParams) (*stripe.Customer, error) {
	return g.api.Customers.New(params)
}

func (g *stripeGateway) NewPortalSession(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error) {
	return g.api.BillingPortalSessions.New(params)
}

type PaymentConfig struct {
	WebhookSecret string
	SiteURL       string
	Prices        map[db_models.PlanKey]string
}

type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, accountID, email string, plan db_models.PlanKey) (response_models.SessionResponse, error)
	CreatePortalSession(ctx context.Context, email string) (response_models.SessionResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	gateway     StripeGateway
	cfg         PaymentConfig
	profileRepo repositories.ProfileRepository
	subRepo     repositories.SubscriptionRepository
	now         func() int64
	logger      *zap.Logger
}

// NewPaymentService accepts a nil gateway; every call then fails with ErrPaymentsNotConfigured.
func NewPaymentService(gateway StripeGateway, cfg PaymentConfig, profileRepo repositories.ProfileRepository, subRepo repositories.SubscriptionRepository, logger *zap.Logger) PaymentService {
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return &paymentService{
		gateway:     gateway,
		cfg:         cfg,
		profileRepo: profileRepo,
		subRepo:     subRepo,
		now:         utils.NowUnixSeconds,
		logger:      logger.Named("payments"),
	}
}

func (p *paymentService) CreateCheckoutSession(ctx context.Context, accountID, email string, plan db_models.PlanKey) (response_models.SessionResponse, error) {
	if p.gateway == nil {
		return response_models.SessionResponse{}, utils.ErrPaymentsNotConfigured
	}
	priceID := p.cfg.Prices[plan]
	if !plan.Valid() || priceID == "" {
		return response_models.SessionResponse{}, utils.ErrInvalidPlan
	}

	tier := plan.Tier()
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID:   stripe.String(accountID),
		AllowPromotionCodes: stripe.Bool(true),
		SuccessURL:          stripe.String(fmt.Sprintf("%s/healwise/dashboard?checkout=success&plan=%s&session_id={CHECKOUT_SESSION_ID}", p.cfg.SiteURL, tier)),
		CancelURL:           stripe.String(p.cfg.SiteURL + "/healwise/dashboard?checkout=cancel"),
	}
	params.AddMetadata("plan", string(tier))
	params.AddMetadata("planKey", string(plan))

	profile, err := p.profileRepo.FindById(ctx, accountID)
	if err != nil {
		return response_models.SessionResponse{}, utils.ErrDatabaseError
	}
	switch {
	case profile != nil && profile.StripeCustomerID != "":
		params.Customer = stripe.String(profile.StripeCustomerID)
	case email != "":
		params.CustomerEmail = stripe.String(email)
	}

	sess, err := p.gateway.NewCheckoutSession(params)
	if err != nil {
		p.logger.Error("stripe checkout session failed", zap.String("account_id", accountID), zap.Error(err))
		return response_models.SessionResponse{}, fmt.Errorf("create checkout session: %w", err)
	}

	p.logger.Info("checkout session created",
		zap.String("account_id", accountID),
		zap.String("plan_key", string(plan)),
		zap.String("session_id", sess.ID),
	)
	return response_models.SessionResponse{ID: sess.ID, URL: sess.URL}, nil
}

func (p *paymentService) CreatePortalSession(ctx context.Context, email string) (response_models.SessionResponse, error) {
	if p.gateway == nil {
		return response_models.SessionResponse{}, utils.ErrPaymentsNotConfigured
	}

	customer, err := p.gateway.FindCustomerByEmail(email)
	if err != nil {
		return response_models.SessionResponse{}, fmt.Errorf("find customer: %w", err)
	}
	if customer == nil {
		customer, err = p.gateway.NewCustomer(&stripe.CustomerParams{Email: stripe.String(email)})
		if err != nil {
			return response_models.SessionResponse{}, fmt.Errorf("create customer: %w", err)
		}
	}

	sess, err := p.gateway.NewPortalSession(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customer.ID),
		ReturnURL: stripe.String(p.cfg.SiteURL + "/healwise/dashboard"),
	})
	if err != nil {
		p.logger.Error("stripe portal session failed", zap.String("customer_id", customer.ID), zap.Error(err))
		return response_models.SessionResponse{}, fmt.Errorf("create portal session: %w", err)
	}
	return response_models.SessionResponse{ID: sess.ID, URL: sess.URL}, nil
}

func (p *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if p.cfg.WebhookSecret == "" {
		return utils.ErrPaymentsNotConfigured
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, p.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrInvalidWebhook, err)
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("%w: %v", utils.ErrInvalidWebhook, err)
		}
		return p.activate(ctx, &sess)
	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("%w: %v", utils.ErrInvalidWebhook, err)
		}
		if sub.Customer == nil || sub.Customer.ID == "" {
			return fmt.Errorf("%w: subscription without customer", utils.ErrInvalidWebhook)
		}
		return p.cancel(ctx, sub.Customer.ID)
	default:
		p.logger.Debug("ignoring stripe event", zap.String("type", string(event.Type)))
	}
	return nil
}

func (p *paymentService) activate(ctx context.Context, sess *stripe.CheckoutSession) error {
	customerID := ""
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}

	accountID := sess.ClientReferenceID
	if accountID == "" && customerID != "" {
		profile, err := p.profileRepo.FindByStripeCustomer(ctx, customerID)
		if err != nil {
			return utils.ErrDatabaseError
		}
		if profile != nil {
			accountID = profile.ID
		}
	}
	if accountID == "" {
		return fmt.Errorf("%w: session %s has no account reference", utils.ErrInvalidWebhook, sess.ID)
	}

	planKey := db_models.PlanKey(sess.Metadata["planKey"])
	tier := db_models.ParseTier(sess.Metadata["plan"])
	if planKey.Valid() {
		tier = planKey.Tier()
	}

	err := p.profileRepo.UpdatePlan(ctx, accountID, tier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = p.profileRepo.Insert(ctx, &db_models.Profile{ID: accountID, Plan: tier})
	}
	if err != nil {
		p.logger.Error("apply purchased plan", zap.String("account_id", accountID), zap.Error(err))
		return utils.ErrDatabaseError
	}

	if customerID != "" {
		if err := p.profileRepo.SetStripeCustomer(ctx, accountID, customerID); err != nil {
			return utils.ErrDatabaseError
		}
	}

	if err := p.subRepo.Record(ctx, &db_models.Subscription{
		AccountID:          accountID,
		Tier:               tier,
		PlanKey:            planKey,
		Period:             planKey.Period(),
		Status:             db_models.SubStatusActive,
		Provider:           paymentProvider,
		ProviderCustomerID: customerID,
		ProviderSessionID:  sess.ID,
	}); err != nil {
		p.logger.Error("record subscription", zap.String("account_id", accountID), zap.Error(err))
		return utils.ErrDatabaseError
	}

	p.logger.Info("plan upgraded", zap.String("account_id", accountID), zap.String("plan", string(tier)))
	return nil
}

func (p *paymentService) cancel(ctx context.Context, customerID string) error {
	profile, err := p.profileRepo.FindByStripeCustomer(ctx, customerID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if profile == nil {
		p.logger.Warn("subscription deleted for unknown customer", zap.String("customer_id", customerID))
		return nil
	}

	if err := p.profileRepo.UpdatePlan(ctx, profile.ID, db_models.TierFree); err != nil {
		return utils.ErrDatabaseError
	}
	if _, err := p.subRepo.CancelByCustomer(ctx, customerID, p.now()); err != nil {
		return utils.ErrDatabaseError
	}

	p.logger.Info("plan downgraded", zap.String("account_id", profile.ID))
	return nil
}
