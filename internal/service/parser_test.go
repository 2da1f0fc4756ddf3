package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRecipeJSON = `{
	"title": "Spaghetti Carbonara",
	"description": "A classic Roman pasta dish.",
	"ingredients": [
		{"name": "spaghetti", "quantity": "400", "unit": "g"},
		{"name": "eggs", "quantity": "4"}
	],
	"instructions": [
		"Boil the pasta.",
		"Whisk the eggs and toss everything together."
	],
	"cooking_time_minutes": 25,
	"servings": 4,
	"difficulty": "medium",
	"cuisine_type": "italian",
	"dietary_tags": ["high-protein"]
}`

func TestParseRecipeResponseFenceVariants(t *testing.T) {
	variants := map[string]string{
		"bare json":    validRecipeJSON,
		"tagged fence": "```json\n" + validRecipeJSON + "\n```",
		"plain fence":  "```\n" + validRecipeJSON + "\n```",
		"whitespace":   "\n\n  ```json\n" + validRecipeJSON + "\n```  \n",
	}

	for name, raw := range variants {
		t.Run(name, func(t *testing.T) {
			recipe, err := ParseRecipeResponse(raw)
			require.NoError(t, err)
			assert.Equal(t, "Spaghetti Carbonara", recipe.Title)
			assert.Len(t, recipe.Ingredients, 2)
			assert.Len(t, recipe.Instructions, 2)
			assert.Equal(t, 25, recipe.CookingTimeMinutes)
			assert.Equal(t, 4, recipe.Servings)
			assert.Equal(t, "medium", recipe.Difficulty)
		})
	}
}

func TestParseRecipeResponseAssignsIdentity(t *testing.T) {
	first, err := ParseRecipeResponse(validRecipeJSON)
	require.NoError(t, err)
	second, err := ParseRecipeResponse(validRecipeJSON)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestParseRecipeResponseInvalidJSON(t *testing.T) {
	_, err := ParseRecipeResponse("this is not json")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindResponseFormat))
}

func TestParseRecipeResponseMissingFields(t *testing.T) {
	_, err := ParseRecipeResponse(`{"title": "Incomplete"}`)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindResponseFormat))
	assert.Contains(t, err.Error(), "ingredients")
	assert.Contains(t, err.Error(), "servings")
}

func TestParseRecipeResponseInvalidDifficulty(t *testing.T) {
	raw := `{
		"title": "T", "description": "D",
		"ingredients": [{"name": "a", "quantity": "1"}],
		"instructions": ["step"],
		"cooking_time_minutes": 10, "servings": 2,
		"difficulty": "impossible"
	}`
	_, err := ParseRecipeResponse(raw)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindResponseFormat))
	assert.Contains(t, err.Error(), "impossible")
}

func TestParseRecipeResponseDifficultyCaseFolded(t *testing.T) {
	raw := `{
		"title": "T", "description": "D",
		"ingredients": [{"name": "a", "quantity": "1"}],
		"instructions": ["step"],
		"cooking_time_minutes": 10, "servings": 2,
		"difficulty": "EASY"
	}`
	recipe, err := ParseRecipeResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, "easy", recipe.Difficulty)
}

func TestParseRecipeResponseNumericStrings(t *testing.T) {
	raw := `{
		"title": "T", "description": "D",
		"ingredients": [{"name": "a", "quantity": "1"}],
		"instructions": ["step"],
		"cooking_time_minutes": "45", "servings": "6",
		"difficulty": "hard"
	}`
	recipe, err := ParseRecipeResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, 45, recipe.CookingTimeMinutes)
	assert.Equal(t, 6, recipe.Servings)
}

func TestParseRecipeResponseIngredientMissingQuantity(t *testing.T) {
	raw := `{
		"title": "T", "description": "D",
		"ingredients": [{"name": "a"}],
		"instructions": ["step"],
		"cooking_time_minutes": 10, "servings": 2,
		"difficulty": "easy"
	}`
	_, err := ParseRecipeResponse(raw)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindResponseFormat))
}

func TestParseRecipeResponseSchemaValidation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			"empty ingredients",
			`{"title": "T", "description": "D", "ingredients": [],
			  "instructions": ["s"], "cooking_time_minutes": 10, "servings": 2, "difficulty": "easy"}`,
		},
		{
			"empty instructions",
			`{"title": "T", "description": "D", "ingredients": [{"name": "a", "quantity": "1"}],
			  "instructions": [], "cooking_time_minutes": 10, "servings": 2, "difficulty": "easy"}`,
		},
		{
			"zero cooking time",
			`{"title": "T", "description": "D", "ingredients": [{"name": "a", "quantity": "1"}],
			  "instructions": ["s"], "cooking_time_minutes": 0, "servings": 2, "difficulty": "easy"}`,
		},
		{
			"negative servings",
			`{"title": "T", "description": "D", "ingredients": [{"name": "a", "quantity": "1"}],
			  "instructions": ["s"], "cooking_time_minutes": 10, "servings": -1, "difficulty": "easy"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecipeResponse(tt.raw)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindSchemaValidation), "got kind %s", KindOf(err))
		})
	}
}

func TestParseRecipeResponseNonStringInstruction(t *testing.T) {
	raw := fmt.Sprintf(`{
		"title": "T", "description": "D",
		"ingredients": [{"name": "a", "quantity": "1"}],
		"instructions": ["step", %d],
		"cooking_time_minutes": 10, "servings": 2,
		"difficulty": "easy"
	}`, 42)
	_, err := ParseRecipeResponse(raw)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindResponseFormat))
}
