package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flavorforge/backend/internal/service"
)

// ResponseMeta carries metadata attached to every successful response.
type ResponseMeta struct {
	Timestamp time.Time `json:"timestamp"`
}

// Envelope is the uniform success response shape.
type Envelope struct {
	Data interface{}  `json:"data"`
	Meta ResponseMeta `json:"meta"`
}

// GenerateRecipeRequest is the request body for recipe generation.
type GenerateRecipeRequest struct {
	Ingredients         []string `json:"ingredients" binding:"required,min=1"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	CuisineType         string   `json:"cuisine_type"`
	Difficulty          string   `json:"difficulty"`
}

// SearchRequest is the request body for recipe search.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

// AddItemRequest is the request body for adding an inventory item.
type AddItemRequest struct {
	IngredientName string `json:"ingredient_name" binding:"required"`
	Quantity       string `json:"quantity"`
}

// RegisterRequest is the request body for account creation.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries a signed API token.
type TokenResponse struct {
	Token string `json:"token"`
}

// apiVersion is reported by the welcome route.
const apiVersion = "1.0.0"

// Welcome serves the API root.
func Welcome(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"message": "Welcome to FlavorForge AI API",
		"version": apiVersion,
	})
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{
		Data: data,
		Meta: ResponseMeta{Timestamp: time.Now().UTC()},
	})
}

// respondError maps service errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, service.ErrInventoryNotFound),
		errors.Is(err, service.ErrItemNotFound):
		status = http.StatusNotFound
	default:
		switch service.KindOf(err) {
		case service.KindInvalidArgument:
			status = http.StatusBadRequest
		case service.KindTimeout:
			status = http.StatusGatewayTimeout
		case service.KindConnection:
			status = http.StatusServiceUnavailable
		case service.KindRateLimited:
			status = http.StatusTooManyRequests
		}
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// currentUserID extracts the authenticated user id set by the auth
// middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}
