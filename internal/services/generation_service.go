package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"healwise/internal/models/db_models"
	"healwise/internal/models/request_models"
	"healwise/internal/models/response_models"
	"healwise/pkg/metrics"
	"healwise/pkg/utils"
)

type GenerationState string

const (
	StateValidating GenerationState = "validating"
	StateGenerating GenerationState = "generating"
	StateCommitting GenerationState = "committing"
	StateDone       GenerationState = "done"
)

type GenerationOutcome struct {
	Result    response_models.TaggedResult
	Remaining int
}

type GenerationServiceInterface interface {
	Recommend(ctx context.Context, accountID string, req request_models.GenerateRequest) (GenerationOutcome, error)
	VaryRecipe(ctx context.Context, accountID string, req request_models.GenerateRequest) (json.RawMessage, error)
	ExplainForKids(ctx context.Context, content string) (json.RawMessage, error)
}

type GenerationService struct {
	generator Generator
	quota     QuotaServiceInterface
	profiles  ProfileServiceInterface
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewGenerationService(generator Generator, quota QuotaServiceInterface, profiles ProfileServiceInterface, m *metrics.Metrics, logger *zap.Logger) GenerationServiceInterface {
	if m == nil {
		m = metrics.NewNop()
	}
	return &GenerationService{
		generator: generator,
		quota:     quota,
		profiles:  profiles,
		metrics:   m,
		logger:    logger.Named("orchestrator"),
	}
}

func cleanItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Recommend validates the submission against the account's allowance, generates, and bills
// len(items) only once generation has succeeded.
func (s *GenerationService) Recommend(ctx context.Context, accountID string, req request_models.GenerateRequest) (GenerationOutcome, error) {
	log := s.logger.With(zap.String("account_id", accountID), zap.String("module", string(req.ModuleType)))
	state := StateValidating
	log.Debug("submission", zap.String("state", string(state)))

	items := cleanItems(req.SubmittedItems())
	if len(items) == 0 {
		return GenerationOutcome{}, utils.ErrEmptyInput
	}
	if !req.ModuleType.Valid() {
		return GenerationOutcome{}, fmt.Errorf("%w: %q", utils.ErrUnsupportedModule, req.ModuleType)
	}

	ent, err := s.profiles.ResolveEntitlement(ctx, accountID)
	if err != nil {
		return GenerationOutcome{}, err
	}
	restrictions := ent.Restrictions
	if req.Restrictions != nil {
		restrictions = *req.Restrictions
	}

	limits := LimitsFor(ent.Tier)
	bucket := BucketFor(ent.Tier, req.ModuleType)
	counter, err := s.quota.ReadCounter(ctx, accountID, bucket)
	if err != nil {
		log.Error("read usage counter", zap.String("bucket", string(bucket)), zap.Error(err))
		return GenerationOutcome{}, utils.ErrDatabaseError
	}

	remaining := RemainingCapacity(ent.Tier, map[db_models.UsageBucket]db_models.UsageCounter{bucket: counter}, req.ModuleType)
	allowance := min(remaining, limits.MaxItemsPerRequest)
	if len(items) > allowance {
		s.metrics.QuotaRejections.WithLabelValues(string(ent.Tier)).Inc()
		s.metrics.Generations.WithLabelValues(request_models.OperationRecommendation, string(req.ModuleType), "rejected").Inc()
		return GenerationOutcome{}, utils.NewQuotaExceededError(len(items), remaining, limits.MaxItemsPerRequest, BucketPeriod(bucket).Noun())
	}

	state = StateGenerating
	log.Debug("submission", zap.String("state", string(state)), zap.Int("items", len(items)))

	prompt, err := BuildRecommendation(req.ModuleType, items, restrictions, req.RecipeType, req.PreviousFoods)
	if err != nil {
		return GenerationOutcome{}, err
	}
	payload, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.metrics.Generations.WithLabelValues(request_models.OperationRecommendation, string(req.ModuleType), "failed").Inc()
		return GenerationOutcome{}, err
	}

	state = StateCommitting
	log.Debug("submission", zap.String("state", string(state)))

	left := remaining - len(items)
	committed, err := s.quota.Commit(ctx, accountID, bucket, len(items))
	if err != nil {
		s.metrics.CommitFailures.Inc()
		log.Warn("usage commit failed",
			zap.String("bucket", string(bucket)),
			zap.Int("amount", len(items)),
			zap.Error(err),
		)
	} else {
		left = BucketCapacity(ent.Tier, bucket) - committed.Count
	}

	state = StateDone
	log.Debug("submission", zap.String("state", string(state)), zap.Int("remaining", left))
	s.metrics.Generations.WithLabelValues(request_models.OperationRecommendation, string(req.ModuleType), "success").Inc()

	return GenerationOutcome{
		Result: response_models.TaggedResult{
			ModuleType: req.ModuleType,
			Payload:    payload,
		},
		Remaining: left,
	}, nil
}

// VaryRecipe does not draw from the usage quota.
func (s *GenerationService) VaryRecipe(ctx context.Context, accountID string, req request_models.GenerateRequest) (json.RawMessage, error) {
	if req.OriginalRecipe == nil || strings.TrimSpace(req.VariationRequest) == "" {
		return nil, utils.ErrEmptyInput
	}

	restrictions := ""
	if req.Restrictions != nil {
		restrictions = *req.Restrictions
	} else {
		ent, err := s.profiles.ResolveEntitlement(ctx, accountID)
		if err != nil {
			return nil, err
		}
		restrictions = ent.Restrictions
	}

	out, err := s.generator.Generate(ctx, BuildRecipeVariation(*req.OriginalRecipe, req.VariationRequest, restrictions))
	s.countOperation(request_models.OperationRecipeVariation, db_models.ModuleRecipe, err)
	return out, err
}

// ExplainForKids does not draw from the usage quota.
func (s *GenerationService) ExplainForKids(ctx context.Context, content string) (json.RawMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, utils.ErrEmptyInput
	}

	out, err := s.generator.Generate(ctx, BuildKidsExplain(content))
	s.countOperation(request_models.OperationKidsExplain, "", err)
	return out, err
}

func (s *GenerationService) countOperation(op string, module db_models.ModuleType, err error) {
	result := "success"
	if err != nil {
		result = "failed"
	}
	s.metrics.Generations.WithLabelValues(op, string(module), result).Inc()
}
