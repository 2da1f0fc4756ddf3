package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/flavorforge/backend/internal/models"
)

// LLMServiceInterface defines recipe generation operations.
type LLMServiceInterface interface {
	GenerateRecipe(ctx context.Context, req *GenerateRecipeRequest) (*models.Recipe, error)
}

// RecipeServiceInterface defines recipe persistence and lookup operations.
type RecipeServiceInterface interface {
	SaveRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	ListRecipes(ctx context.Context, limit, offset int) ([]models.Recipe, error)
	SearchRecipes(ctx context.Context, query string, limit int) ([]models.Recipe, error)
}

// InventoryServiceInterface defines per-user inventory operations.
type InventoryServiceInterface interface {
	GetInventory(ctx context.Context, userID uuid.UUID) (*models.UserInventory, error)
	AddItem(ctx context.Context, userID uuid.UUID, ingredientName, quantity string) (*models.UserInventory, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, ingredientName string) (*models.UserInventory, error)
	MatchRecipes(ctx context.Context, userID uuid.UUID) (*MatchResult, error)
}

// EmbeddingServiceInterface defines embedding generation operations.
type EmbeddingServiceInterface interface {
	GenerateEmbedding(text string) (pgvector.Vector, error)
	Reset()
}

// ImageServiceInterface defines recipe image generation operations.
type ImageServiceInterface interface {
	GenerateRecipeImage(ctx context.Context, recipe *models.Recipe) (string, error)
}
