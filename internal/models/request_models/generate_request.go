package request_models

import "healwise/internal/models/db_models"

const (
	OperationRecommendation  = "recommendation"
	OperationRecipeVariation = "recipe-variation"
	OperationKidsExplain     = "kids-explain"
)

// GenerateRequest is the union body of POST /generate, discriminated by Operation.
// An empty Operation means recommendation.
type GenerateRequest struct {
	Operation string `json:"operation" binding:"omitempty,oneof=recommendation recipe-variation kids-explain"`

	// recommendation
	ModuleType    db_models.ModuleType `json:"moduleType" binding:"omitempty,moduletype"`
	Items         []string             `json:"items" binding:"omitempty,max=50"`
	Input         string               `json:"input"`
	Restrictions  *string              `json:"restrictions"`
	RecipeType    db_models.RecipeType `json:"recipeType" binding:"omitempty,recipetype"`
	PreviousFoods []string             `json:"previousFoods"`

	// recipe-variation
	OriginalRecipe   *RecipePayload `json:"originalRecipe"`
	VariationRequest string         `json:"variationRequest"`

	// kids-explain
	Content string `json:"content"`
}

type RecipePayload struct {
	RecipeName   string               `json:"recipeName" binding:"required"`
	Description  string               `json:"description"`
	Ingredients  []string             `json:"ingredients"`
	Instructions []string             `json:"instructions"`
	RecipeType   db_models.RecipeType `json:"recipeType" binding:"required,recipetype"`
}

// SubmittedItems returns Items, or Input as a single item when Items is absent.
func (r GenerateRequest) SubmittedItems() []string {
	if len(r.Items) > 0 {
		return r.Items
	}
	if r.Input != "" {
		return []string{r.Input}
	}
	return nil
}
