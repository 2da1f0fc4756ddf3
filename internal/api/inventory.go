package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/flavorforge/backend/internal/service"
)

// InventoryHandler serves per-user ingredient inventory endpoints.
type InventoryHandler struct {
	inventory service.InventoryServiceInterface
	logger    *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventory service.InventoryServiceInterface, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventory: inventory,
		logger:    logger,
	}
}

// RegisterRoutes registers inventory routes on the given group.
func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/inventory")
	{
		inventory.GET("", h.GetInventory)
		inventory.POST("/items", h.AddItem)
		inventory.DELETE("/items/:name", h.RemoveItem)
		inventory.POST("/match-recipes", h.MatchRecipes)
	}
}

// GetInventory returns the caller's inventory.
func (h *InventoryHandler) GetInventory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	inventory, err := h.inventory.GetInventory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, inventory)
}

// AddItem adds or updates an ingredient in the caller's inventory.
func (h *InventoryHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inventory, err := h.inventory.AddItem(c.Request.Context(), userID, req.IngredientName, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, inventory)
}

// RemoveItem removes an ingredient from the caller's inventory by name.
func (h *InventoryHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	name := c.Param("name")
	inventory, err := h.inventory.RemoveItem(c.Request.Context(), userID, name)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, inventory)
}

// MatchRecipes classifies stored recipes against the caller's inventory.
func (h *InventoryHandler) MatchRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.inventory.MatchRecipes(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("recipe matching failed", zap.Error(err))
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}
