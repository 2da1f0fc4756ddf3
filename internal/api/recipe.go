package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flavorforge/backend/internal/service"
)

// RecipeHandler serves recipe generation, lookup and search endpoints.
type RecipeHandler struct {
	llm     service.LLMServiceInterface
	recipes service.RecipeServiceInterface
	images  service.ImageServiceInterface
	logger  *zap.Logger
}

// NewRecipeHandler creates a new RecipeHandler. The image service may be nil
// when image generation is disabled.
func NewRecipeHandler(llm service.LLMServiceInterface, recipes service.RecipeServiceInterface, images service.ImageServiceInterface, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		llm:     llm,
		recipes: recipes,
		images:  images,
		logger:  logger,
	}
}

// RegisterRoutes registers recipe routes on the given group.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, rateLimit gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		if rateLimit != nil {
			recipes.POST("/generate", rateLimit, h.GenerateRecipe)
		} else {
			recipes.POST("/generate", h.GenerateRecipe)
		}
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("/search", h.SearchRecipes)
	}
}

// GenerateRecipe asks the model for a recipe built around the given
// ingredients, persists it and returns it.
func (h *RecipeHandler) GenerateRecipe(c *gin.Context) {
	var req GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.llm.GenerateRecipe(c.Request.Context(), &service.GenerateRecipeRequest{
		Ingredients:         req.Ingredients,
		DietaryRestrictions: req.DietaryRestrictions,
		CuisineType:         req.CuisineType,
		Difficulty:          req.Difficulty,
	})
	if err != nil {
		h.logger.Error("recipe generation failed", zap.Error(err))
		respondError(c, err)
		return
	}

	if h.images != nil {
		url, err := h.images.GenerateRecipeImage(c.Request.Context(), recipe)
		if err != nil {
			h.logger.Warn("recipe image generation failed", zap.Error(err))
		} else {
			recipe.ImageURL = url
		}
	}

	saved, err := h.recipes.SaveRecipe(c.Request.Context(), recipe)
	if err != nil {
		h.logger.Error("failed to save generated recipe", zap.Error(err))
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, saved)
}

// GetRecipe returns a stored recipe by id.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, recipe)
}

// ListRecipes returns stored recipes, newest first.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, recipes)
}

// SearchRecipes performs semantic search over stored recipes.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipes, err := h.recipes.SearchRecipes(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, recipes)
}
