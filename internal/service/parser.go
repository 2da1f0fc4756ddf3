package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flavorforge/backend/internal/models"
)

var requiredRecipeFields = []string{
	"title", "description", "ingredients", "instructions",
	"cooking_time_minutes", "servings", "difficulty",
}

// ParseRecipeResponse turns a raw model completion into a validated Recipe.
// The model output may be wrapped in a fenced code block (tagged or bare);
// the enclosed JSON must carry every required recipe field. The recipe's id
// and creation time are assigned here and never taken from the model.
//
// Shape problems (unparseable JSON, missing fields, wrong field types) come
// back as KindResponseFormat; well-shaped output that violates the recipe's
// domain constraints comes back as KindSchemaValidation.
func ParseRecipeResponse(raw string) (*models.Recipe, error) {
	text := stripCodeFence(strings.TrimSpace(raw))

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var data map[string]interface{}
	if err := dec.Decode(&data); err != nil {
		return nil, wrapError(KindResponseFormat, err, "failed to parse JSON from model response")
	}

	var missing []string
	for _, field := range requiredRecipeFields {
		if _, ok := data[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, newError(KindResponseFormat, "missing required fields: %s", strings.Join(missing, ", "))
	}

	ingredients, err := parseIngredients(data["ingredients"])
	if err != nil {
		return nil, err
	}

	instructions, err := parseInstructions(data["instructions"])
	if err != nil {
		return nil, err
	}

	difficulty, ok := data["difficulty"].(string)
	if !ok {
		return nil, newError(KindResponseFormat, "difficulty must be a string, got %T", data["difficulty"])
	}
	difficulty = strings.ToLower(difficulty)
	if !models.ValidDifficulty(difficulty) {
		return nil, newError(KindResponseFormat, "invalid difficulty level: %s, must be easy, medium, or hard", difficulty)
	}

	cookingTime, err := coerceInt("cooking_time_minutes", data["cooking_time_minutes"])
	if err != nil {
		return nil, err
	}
	servings, err := coerceInt("servings", data["servings"])
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		ID:                 uuid.New(),
		Title:              asString(data["title"]),
		Description:        asString(data["description"]),
		Ingredients:        ingredients,
		Instructions:       instructions,
		CookingTimeMinutes: cookingTime,
		Servings:           servings,
		Difficulty:         difficulty,
		CuisineType:        asString(data["cuisine_type"]),
		DietaryTags:        asStringList(data["dietary_tags"]),
		ImageURL:           asString(data["image_url"]),
		CreatedAt:          time.Now().UTC(),
	}

	if err := validateRecipe(recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// stripCodeFence removes a surrounding markdown code fence, keeping only the
// enclosed content. Both ```json and bare ``` fences are handled.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	if i := strings.LastIndex(text, "```"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

func parseIngredients(v interface{}) (models.JSONBIngredients, error) {
	entries, ok := v.([]interface{})
	if !ok {
		return nil, newError(KindResponseFormat, "ingredients must be a list, got %T", v)
	}

	ingredients := make(models.JSONBIngredients, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]interface{})
		if !ok {
			return nil, newError(KindResponseFormat, "invalid ingredient format: %v", entry)
		}
		name, hasName := m["name"]
		quantity, hasQuantity := m["quantity"]
		if !hasName || !hasQuantity {
			return nil, newError(KindResponseFormat, "ingredient missing name or quantity: %v", entry)
		}
		ingredients = append(ingredients, models.Ingredient{
			Name:     asString(name),
			Quantity: asString(quantity),
			Unit:     asString(m["unit"]),
		})
	}
	return ingredients, nil
}

func parseInstructions(v interface{}) (models.JSONBStringArray, error) {
	entries, ok := v.([]interface{})
	if !ok {
		return nil, newError(KindResponseFormat, "instructions must be a list, got %T", v)
	}

	instructions := make(models.JSONBStringArray, 0, len(entries))
	for _, entry := range entries {
		step, ok := entry.(string)
		if !ok {
			return nil, newError(KindResponseFormat, "all instruction steps must be strings, got %T", entry)
		}
		instructions = append(instructions, step)
	}
	return instructions, nil
}

// coerceInt accepts JSON numbers (truncating fractions) and numeric strings.
func coerceInt(field string, v interface{}) (int, error) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, newError(KindResponseFormat, "%s is not a valid number: %s", field, n.String())
		}
		return int(f), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, newError(KindResponseFormat, "%s is not a valid integer: %q", field, n)
		}
		return i, nil
	default:
		return 0, newError(KindResponseFormat, "%s must be a number, got %T", field, v)
	}
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return ""
	}
}

func asStringList(v interface{}) models.JSONBStringArray {
	entries, ok := v.([]interface{})
	if !ok {
		return models.JSONBStringArray{}
	}
	out := make(models.JSONBStringArray, 0, len(entries))
	for _, entry := range entries {
		if s, ok := entry.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// validateRecipe enforces the recipe's domain invariants after parsing.
func validateRecipe(r *models.Recipe) error {
	var problems []string
	if len(r.Ingredients) == 0 {
		problems = append(problems, "at least one ingredient is required")
	}
	if len(r.Instructions) == 0 {
		problems = append(problems, "at least one instruction step is required")
	}
	if r.CookingTimeMinutes <= 0 {
		problems = append(problems, fmt.Sprintf("cooking_time_minutes must be positive, got %d", r.CookingTimeMinutes))
	}
	if r.Servings <= 0 {
		problems = append(problems, fmt.Sprintf("servings must be positive, got %d", r.Servings))
	}
	if !models.ValidDifficulty(r.Difficulty) {
		problems = append(problems, fmt.Sprintf("invalid difficulty: %s", r.Difficulty))
	}
	if len(problems) > 0 {
		return newError(KindSchemaValidation, "recipe validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}
