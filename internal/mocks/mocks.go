package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/flavorforge/backend/internal/models"
	"github.com/flavorforge/backend/internal/service"
)

// MockLLMService returns canned recipes or a configured error.
type MockLLMService struct {
	Recipe *models.Recipe
	Err    error
	Calls  int
}

func (m *MockLLMService) GenerateRecipe(ctx context.Context, req *service.GenerateRecipeRequest) (*models.Recipe, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Recipe != nil {
		return m.Recipe, nil
	}
	return &models.Recipe{
		ID:    uuid.New(),
		Title: "Mock Recipe",
		Ingredients: models.JSONBIngredients{
			{Name: "water", Quantity: "1", Unit: "cup"},
		},
		Instructions:       models.JSONBStringArray{"boil"},
		CookingTimeMinutes: 5,
		Servings:           1,
		Difficulty:         models.DifficultyEasy,
	}, nil
}

// MockImageService records calls and returns a fixed URL.
type MockImageService struct {
	URL   string
	Err   error
	Calls int
}

func (m *MockImageService) GenerateRecipeImage(ctx context.Context, recipe *models.Recipe) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	if m.URL != "" {
		return m.URL, nil
	}
	return "https://example.com/image.png", nil
}
