package service

import (
	"sort"
	"strings"

	"github.com/flavorforge/backend/internal/models"
)

// partialMatchThreshold is the minimum share of a recipe's ingredients the
// inventory must cover for the recipe to count as a partial match.
const partialMatchThreshold = 0.8

// IngredientKey returns the canonical comparison key for an ingredient name.
// Comparison is case-insensitive and nothing else: no trimming, no synonym
// or plural handling. "Scallion" and "green onion" stay distinct on purpose.
func IngredientKey(name string) string {
	return strings.ToLower(name)
}

// PartialMatch is a recipe the inventory almost covers, reported together
// with what is missing. It is a distinct result type rather than extra
// fields injected into the recipe itself.
type PartialMatch struct {
	models.Recipe
	MissingIngredients []string `json:"missing_ingredients"`
	MatchPercentage    float64  `json:"match_percentage"`
}

// MatchResult holds the tiers produced by MatchRecipes. It is transient and
// never persisted.
type MatchResult struct {
	ExactMatches   []models.Recipe `json:"exact_matches"`
	PartialMatches []PartialMatch  `json:"partial_matches"`
}

// MatchRecipes classifies recipes against the given inventory ingredient
// names. A recipe whose ingredient keys are all present in the inventory is
// an exact match; one covered at 80% or better is a partial match carrying
// its missing ingredient keys and coverage; everything else is dropped.
//
// Matches preserve the input recipe order. Recipes without ingredients are
// excluded from both tiers, and an empty inventory short-circuits to an
// empty result. The function is pure and never fails.
func MatchRecipes(inventory []string, recipes []models.Recipe) MatchResult {
	result := MatchResult{
		ExactMatches:   []models.Recipe{},
		PartialMatches: []PartialMatch{},
	}
	if len(inventory) == 0 {
		return result
	}

	invKeys := make(map[string]struct{}, len(inventory))
	for _, name := range inventory {
		invKeys[IngredientKey(name)] = struct{}{}
	}

	for _, recipe := range recipes {
		recipeKeys := make(map[string]struct{}, len(recipe.Ingredients))
		for _, ing := range recipe.Ingredients {
			recipeKeys[IngredientKey(ing.Name)] = struct{}{}
		}
		if len(recipeKeys) == 0 {
			continue
		}

		matching := 0
		missing := []string{}
		for key := range recipeKeys {
			if _, ok := invKeys[key]; ok {
				matching++
			} else {
				missing = append(missing, key)
			}
		}

		percentage := float64(matching) / float64(len(recipeKeys))
		switch {
		case percentage == 1.0:
			result.ExactMatches = append(result.ExactMatches, recipe)
		case percentage >= partialMatchThreshold:
			sort.Strings(missing)
			result.PartialMatches = append(result.PartialMatches, PartialMatch{
				Recipe:             recipe,
				MissingIngredients: missing,
				MatchPercentage:    percentage,
			})
		}
	}

	return result
}
