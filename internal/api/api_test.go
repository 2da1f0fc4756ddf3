package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/flavorforge/backend/config"
	"github.com/flavorforge/backend/internal/api"
	"github.com/flavorforge/backend/internal/mocks"
	"github.com/flavorforge/backend/internal/models"
	"github.com/flavorforge/backend/internal/router"
	"github.com/flavorforge/backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	auth      *service.AuthService
	llm       *mocks.MockLLMService
	recipes   *service.RecipeService
	inventory *service.InventoryService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Recipe{}, &models.UserInventory{}))

	log := zap.NewNop()
	embedding := service.NewEmbeddingService(100)
	recipes := service.NewRecipeService(db, embedding, log)
	inventory := service.NewInventoryService(db, recipes, log)
	auth := service.NewAuthService(db, config.JWTConfig{Secret: "test-secret", TTL: time.Hour})
	llm := &mocks.MockLLMService{}

	authHandler := api.NewAuthHandler(auth)
	recipeHandler := api.NewRecipeHandler(llm, recipes, nil, log)
	inventoryHandler := api.NewInventoryHandler(inventory, log)

	r := router.SetupRouter(authHandler, recipeHandler, inventoryHandler, auth, nil)

	return &testEnv{
		router:    r,
		db:        db,
		auth:      auth,
		llm:       llm,
		recipes:   recipes,
		inventory: inventory,
	}
}

// registerUser creates an account through the API and returns its token.
func (e *testEnv) registerUser(t *testing.T) string {
	t.Helper()
	email := fmt.Sprintf("user-%s@example.com", uuid.New().String()[:8])
	w := e.request(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data api.TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func carbonaraRecipe() *models.Recipe {
	return &models.Recipe{
		ID:          uuid.New(),
		Title:       "Spaghetti Carbonara",
		Description: "A classic Roman pasta dish.",
		Ingredients: models.JSONBIngredients{
			{Name: "spaghetti", Quantity: "400", Unit: "g"},
			{Name: "eggs", Quantity: "4"},
			{Name: "parmesan", Quantity: "100", Unit: "g"},
			{Name: "bacon", Quantity: "150", Unit: "g"},
		},
		Instructions:       models.JSONBStringArray{"Boil pasta.", "Toss with eggs and bacon."},
		CookingTimeMinutes: 25,
		Servings:           4,
		Difficulty:         models.DifficultyMedium,
		CuisineType:        "italian",
		CreatedAt:          time.Now().UTC(),
	}
}

func seedRecipe(t *testing.T, e *testEnv, recipe *models.Recipe) {
	t.Helper()
	_, err := e.recipes.SaveRecipe(context.Background(), recipe)
	require.NoError(t, err)
}
