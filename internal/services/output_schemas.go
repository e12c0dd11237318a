package services

import "healwise/internal/models/db_models"

func stringArray() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

func strictObject(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func arrayOf(item map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": item}
}

func foodSchema() map[string]any {
	return arrayOf(strictObject(map[string]any{
		"name":            map[string]any{"type": "string"},
		"description":     map[string]any{"type": "string"},
		"studySummary":    map[string]any{"type": "string"},
		"stewardshipNote": map[string]any{"type": "string"},
	}, "name", "description", "studySummary", "stewardshipNote"))
}

func herbSchema() map[string]any {
	return arrayOf(strictObject(map[string]any{
		"name":          map[string]any{"type": "string"},
		"benefits":      map[string]any{"type": "string"},
		"studyCitation": map[string]any{"type": "string"},
		"youtubeLink":   map[string]any{"type": "string"},
	}, "name", "benefits", "studyCitation"))
}

func medsSchema() map[string]any {
	medication := strictObject(map[string]any{
		"name":              map[string]any{"type": "string"},
		"howItWorks":        map[string]any{"type": "string"},
		"commonSideEffects": stringArray(),
	}, "name", "howItWorks", "commonSideEffects")

	interaction := strictObject(map[string]any{
		"medications":   stringArray(),
		"effectsOnBody": map[string]any{"type": "string"},
		"studySummary":  map[string]any{"type": "string"},
	}, "medications", "effectsOnBody", "studySummary")

	warning := strictObject(map[string]any{
		"medicationName":        map[string]any{"type": "string"},
		"conflictingIngredient": map[string]any{"type": "string"},
		"warning":               map[string]any{"type": "string"},
	}, "medicationName", "conflictingIngredient", "warning")

	return arrayOf(strictObject(map[string]any{
		"individualMedications": arrayOf(medication),
		"interactionAnalysis":   arrayOf(interaction),
		"allergyWarnings":       arrayOf(warning),
	}, "individualMedications", "interactionAnalysis", "allergyWarnings"))
}

func recipeSchema() map[string]any {
	return strictObject(map[string]any{
		"recipeName":   map[string]any{"type": "string"},
		"description":  map[string]any{"type": "string"},
		"ingredients":  stringArray(),
		"instructions": stringArray(),
		"recipeType": map[string]any{
			"type": "string",
			"enum": []string{string(db_models.RecipeJuice), string(db_models.RecipeSmoothie), string(db_models.RecipeTea)},
		},
	}, "recipeName", "description", "ingredients", "instructions", "recipeType")
}

func kidsExplainSchema() map[string]any {
	return strictObject(map[string]any{
		"simplified": map[string]any{"type": "string"},
	}, "simplified")
}
