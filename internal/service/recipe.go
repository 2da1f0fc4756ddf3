package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flavorforge/backend/internal/models"
)

const (
	// defaultListLimit applies when the caller does not bound a listing.
	defaultListLimit = 10
	// maxListLimit caps any recipe listing so a match scan never walks the
	// whole table.
	maxListLimit = 100
	// maxSearchLimit bounds similarity search results.
	maxSearchLimit = 50
)

// RecipeService persists recipes and serves lookups, listings and
// similarity search over them.
type RecipeService struct {
	db        *gorm.DB
	embedding EmbeddingServiceInterface
	logger    *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, embedding EmbeddingServiceInterface, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		db:        db,
		embedding: embedding,
		logger:    logger,
	}
}

// SaveRecipe stores a recipe, attaching an embedding computed from its text
// so it becomes searchable. The recipe itself is not modified otherwise.
func (s *RecipeService) SaveRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	vec, err := s.embedding.GenerateEmbedding(recipeEmbeddingText(recipe))
	if err != nil {
		return nil, err
	}
	recipe.Embedding = vec

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns recipes ordered by creation time descending. The
// limit is clamped to maxListLimit.
func (s *RecipeService) ListRecipes(ctx context.Context, limit, offset int) ([]models.Recipe, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// SearchRecipes performs semantic search over stored recipes, ordered by
// embedding distance to the query. Falls back to keyword matching on
// databases without pgvector.
func (s *RecipeService) SearchRecipes(ctx context.Context, query string, limit int) ([]models.Recipe, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newError(KindInvalidArgument, "search query cannot be empty")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	var recipes []models.Recipe

	if s.db.Dialector.Name() == "postgres" {
		vec, err := s.embedding.GenerateEmbedding(query)
		if err != nil {
			return nil, err
		}
		err = s.db.WithContext(ctx).
			Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			}).
			Limit(limit).
			Find(&recipes).Error
		if err != nil {
			return nil, err
		}
		return recipes, nil
	}

	// Keyword fallback for non-PostgreSQL databases (tests run on sqlite)
	like := "%" + strings.ToLower(query) + "%"
	err := s.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients) LIKE ?", like, like, like).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// recipeEmbeddingText builds the text a recipe is embedded from.
func recipeEmbeddingText(r *models.Recipe) string {
	parts := []string{r.Title, r.Description}
	for _, ing := range r.Ingredients {
		parts = append(parts, ing.Name)
	}
	parts = append(parts, r.DietaryTags...)
	if r.CuisineType != "" {
		parts = append(parts, r.CuisineType)
	}
	return strings.Join(parts, " ")
}
