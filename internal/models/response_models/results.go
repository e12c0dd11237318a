package response_models

import (
	"encoding/json"

	"healwise/internal/models/db_models"
)

type FoodResult struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	StudySummary    string `json:"studySummary"`
	StewardshipNote string `json:"stewardshipNote"`
}

type HerbResult struct {
	Name          string `json:"name"`
	Benefits      string `json:"benefits"`
	StudyCitation string `json:"studyCitation"`
	YoutubeLink   string `json:"youtubeLink,omitempty"`
}

type MedicationInfo struct {
	Name              string   `json:"name"`
	HowItWorks        string   `json:"howItWorks"`
	CommonSideEffects []string `json:"commonSideEffects"`
}

type InteractionInfo struct {
	Medications   []string `json:"medications"`
	EffectsOnBody string   `json:"effectsOnBody"`
	StudySummary  string   `json:"studySummary"`
}

type AllergyWarning struct {
	MedicationName        string `json:"medicationName"`
	ConflictingIngredient string `json:"conflictingIngredient"`
	Warning               string `json:"warning"`
}

type MedsAnalysisResult struct {
	IndividualMedications []MedicationInfo  `json:"individualMedications"`
	InteractionAnalysis   []InteractionInfo `json:"interactionAnalysis"`
	AllergyWarnings       []AllergyWarning  `json:"allergyWarnings"`
}

type RecipeResult struct {
	RecipeName   string               `json:"recipeName"`
	Description  string               `json:"description"`
	Ingredients  []string             `json:"ingredients"`
	Instructions []string             `json:"instructions"`
	RecipeType   db_models.RecipeType `json:"recipeType"`
}

type KidsExplanation struct {
	Simplified string `json:"simplified"`
}

// TaggedResult pairs a generation payload with the module that produced it.
type TaggedResult struct {
	ModuleType db_models.ModuleType `json:"moduleType"`
	Payload    json.RawMessage      `json:"payload"`
}
