package services

import (
	"fmt"
	"strings"

	"healwise/internal/models/db_models"
	"healwise/internal/models/request_models"
	"healwise/pkg/utils"
)

// Prompt is a fully rendered provider request.
type Prompt struct {
	Operation  string
	Module     db_models.ModuleType
	RecipeType db_models.RecipeType
	Text       string
	Schema     map[string]any
}

const noDirectivesRule = "Do not offer prescriptions, dosing, or individualized medical directives."

func restrictionClause(restrictions string) string {
	restrictions = strings.TrimSpace(restrictions)
	if restrictions == "" {
		return ""
	}
	return fmt.Sprintf("\n\nIngredient guardrails shared by the learner: %q. Keep every suggestion aligned with these preferences and avoid conflicting ingredients.", restrictions)
}

func joinItems(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return strings.Join(cleaned, ", ")
}

// BuildRecommendation renders the per-module template. The caller has already filtered items.
func BuildRecommendation(module db_models.ModuleType, items []string, restrictions string, recipeType db_models.RecipeType, previousFoods []string) (Prompt, error) {
	input := joinItems(items)
	clause := restrictionClause(restrictions)

	p := Prompt{Operation: request_models.OperationRecommendation, Module: module}

	switch module {
	case db_models.ModuleFood:
		p.Text = foodPrompt(input, previousFoods) + clause
		p.Schema = foodSchema()
	case db_models.ModuleHerbs:
		p.Text = herbsPrompt(input) + clause
		p.Schema = herbSchema()
	case db_models.ModuleMeds:
		p.Text = medsPrompt(input, restrictions) + clause
		p.Schema = medsSchema()
	case db_models.ModuleRecipe:
		if !recipeType.Valid() {
			recipeType = db_models.RecipeJuice
		}
		p.RecipeType = recipeType
		p.Text = recipePrompt(input, recipeType) + clause
		p.Schema = recipeSchema()
	default:
		return Prompt{}, fmt.Errorf("%w: %s", utils.ErrUnsupportedModule, module)
	}
	return p, nil
}

func BuildRecipeVariation(original request_models.RecipePayload, variationRequest, restrictions string) Prompt {
	text := fmt.Sprintf(`Based on the following recipe:
Name: %s
Description: %s
Ingredients: %s
Instructions: %s

Please generate a new version of this recipe with the following modification: %q.
Ensure the output is a single JSON object matching the provided schema. The 'recipeType' must remain '%s'.
%s
%s`,
		original.RecipeName,
		original.Description,
		strings.Join(original.Ingredients, ", "),
		strings.Join(original.Instructions, "; "),
		strings.TrimSpace(variationRequest),
		original.RecipeType,
		noDirectivesRule,
		restrictionClause(restrictions),
	)

	return Prompt{
		Operation:  request_models.OperationRecipeVariation,
		Module:     db_models.ModuleRecipe,
		RecipeType: original.RecipeType,
		Text:       strings.TrimRight(text, "\n"),
		Schema:     recipeSchema(),
	}
}

func BuildKidsExplain(content string) Prompt {
	text := fmt.Sprintf("Rewrite the following explanation in warm, plain language suitable for a curious older child or young teen (around ages 10 to 14). "+
		"Keep it accurate and non-scary, avoid medical commands or dosing advice, and focus on helping them understand the big idea in a calm, hopeful way. "+
		"%s\n\nOriginal explanation:\n%q", noDirectivesRule, content)

	return Prompt{
		Operation: request_models.OperationKidsExplain,
		Text:      text,
		Schema:    kidsExplainSchema(),
	}
}

func foodPrompt(input string, previousFoods []string) string {
	avoid := ""
	if seen := joinItems(previousFoods); seen != "" {
		avoid = fmt.Sprintf(" Avoid repeating foods that have already been suggested for this learner, especially: %s.", seen)
	}

	return fmt.Sprintf(`A learner is curious about the wellness focus or condition %[1]q. Suggest 3 diverse true whole foods that someone might find in a grocery store that are often discussed in reputable nutrition sources related to that focus.

1. Always provide a mix of categories across the three suggestions. Aim for:
   - at least one colorful vegetable or root (for example, leafy greens, broccoli, sweet potatoes, carrots),
   - at least one food rich in protein or hearty calories (for example, beans, lentils, nuts or seeds, eggs, fish, or minimally processed meats; only include animal foods if the learner's preferences do not clearly avoid them),
   - and at least one additional everyday whole food that rounds out the ideas (such as fruit, whole grains, or seeds).
2. Avoid repeating the same specific food name for many different themes. Only suggest commonly overused examples like quinoa or salmon if they are especially relevant to this particular focus.
3. Do not include herbs, herbal supplements, spices, teas, capsules, extracts, or powders as standalone items.
4. For each food, the JSON fields must be used as follows:
   - "description": briefly describe the food and, in plain language, why it is often discussed for the learner's focus %[1]q (for example, which nutrients it contains or which body systems it relates to). This should sound like educational commentary someone might read on a reputable nutrition site, not a personal instruction.
   - "studySummary": give a very short summary of a study or evidence source that explores this food in relation to the theme. Keep it cautious and avoid strong claims.
   - "stewardshipNote": offer a gentle reflection on budgeting, sustainability, or mindful use (for example, how someone might think about including this food when talking with a professional or planning meals), without telling the learner exactly what to do.
5. %[2]s Do not tell the learner what they personally should eat, avoid, or change. Every suggested food must respect the learner's stated ingredient preferences and avoid-list first.%[3]s`,
		input, noDirectivesRule, avoid)
}

func herbsPrompt(input string) string {
	return fmt.Sprintf(`A learner wants plain-language field notes about the theme %[1]q. Highlight 3 herbs that are commonly referenced when exploring that theme.

For each herb:
1. Explain what it is and the tradition or research context it is usually discussed in.
2. In everyday language, describe why this herb is often mentioned for the learner's theme %[1]q (for example, which body systems or patterns it relates to in educational sources), without telling the learner what they personally should take or change.
3. Cite a reputable study or source.
4. Include a YouTube link from 'The Herbal Code 411' channel if a relevant video exists.

Keep the tone educational. %[2]s Avoid substitution advice.`, input, noDirectivesRule)
}

func medsPrompt(input, restrictions string) string {
	prefs := strings.TrimSpace(restrictions)
	if prefs == "" {
		prefs = "none"
	}

	return fmt.Sprintf(`Provide an educational, plain-language decoder for the following list of medications, supplements, or OTC items: %q.
1. For each item, explain what it is and give a calm, everyday-language summary of how it affects the body (for example, which systems or pathways it generally influences and what that means in daily life). Keep this at the level of "how it works in the body" for learning, not at the level of dosing instructions or what someone personally should do.
2. List commonly noted effects or considerations that people might read about on reputable health sites or medication guides. Do not tell the learner what to start, stop, change, or substitute.
3. Summarize any notable interactions between the listed items discussed in reputable sources. If none are noteworthy, keep the "interactionAnalysis" array empty.
4. Highlight potential inactive-ingredient flags (like lactose, gluten, dyes, peanut oil) that could conflict with the learner's stated preferences: %q. If there are no conflicts, leave "allergyWarnings" empty.
Make sure every section is clearly framed as educational context only and never as a prescription, diagnosis, dosing, or medical directive. %s`,
		input, prefs, noDirectivesRule)
}

func recipePrompt(input string, recipeType db_models.RecipeType) string {
	return fmt.Sprintf(`Generate a %[1]s recipe inspired by the learner's prompt %[2]q. Keep the tone experimental and educational: share a recipe name, description, ingredient list, and step-by-step instructions so the learner can reflect on the idea. Avoid health claims or prescriptive outcomes. %[3]s The 'recipeType' field in the JSON output must remain %[1]q.`,
		recipeType, input, noDirectivesRule)
}
