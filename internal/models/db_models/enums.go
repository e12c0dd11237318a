package db_models

type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPro     SubscriptionTier = "pro"
	TierPremium SubscriptionTier = "premium"
)

// ParseTier maps unknown or empty values to the free tier.
func ParseTier(s string) SubscriptionTier {
	switch SubscriptionTier(s) {
	case TierPro:
		return TierPro
	case TierPremium:
		return TierPremium
	default:
		return TierFree
	}
}

func (t SubscriptionTier) Valid() bool {
	return t == TierFree || t == TierPro || t == TierPremium
}

type ModuleType string

const (
	ModuleFood   ModuleType = "Food"
	ModuleHerbs  ModuleType = "Herbs"
	ModuleMeds   ModuleType = "Meds"
	ModuleRecipe ModuleType = "Recipe"
)

func (m ModuleType) Valid() bool {
	switch m {
	case ModuleFood, ModuleHerbs, ModuleMeds, ModuleRecipe:
		return true
	}
	return false
}

type RecipeType string

const (
	RecipeJuice    RecipeType = "Juice"
	RecipeSmoothie RecipeType = "Smoothie"
	RecipeTea      RecipeType = "Tea"
)

func (r RecipeType) Valid() bool {
	return r == RecipeJuice || r == RecipeSmoothie || r == RecipeTea
}

// UsageBucket is an independent usage-counting scope.
type UsageBucket string

const (
	BucketConditions UsageBucket = "conditions" // free: Food, Herbs, Recipe
	BucketMeds       UsageBucket = "meds"       // free: Meds
	BucketAnalyses   UsageBucket = "analyses"   // pro, premium: everything
)
