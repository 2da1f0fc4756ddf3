package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/flavorforge/backend/config"
	"github.com/flavorforge/backend/internal/database"
	"github.com/flavorforge/backend/internal/logging"
	"github.com/flavorforge/backend/internal/service"
)

// Ingredient lists the seeder asks the model to build recipes around.
var seedRequests = []service.GenerateRecipeRequest{
	{Ingredients: []string{"spaghetti", "eggs", "parmesan", "bacon"}, CuisineType: "italian"},
	{Ingredients: []string{"chicken", "rice", "soy sauce", "ginger"}, CuisineType: "asian"},
	{Ingredients: []string{"chickpeas", "tomatoes", "onion", "cumin"}, DietaryRestrictions: []string{"vegan"}},
	{Ingredients: []string{"salmon", "lemon", "dill", "potatoes"}, Difficulty: "easy"},
	{Ingredients: []string{"black beans", "corn", "tortillas", "lime"}, CuisineType: "mexican"},
	{Ingredients: []string{"eggplant", "zucchini", "tomatoes", "basil"}, DietaryRestrictions: []string{"vegetarian"}},
	{Ingredients: []string{"beef", "carrots", "red wine", "thyme"}, Difficulty: "hard"},
	{Ingredients: []string{"tofu", "broccoli", "sesame oil", "garlic"}, DietaryRestrictions: []string{"vegan"}, CuisineType: "chinese"},
	{Ingredients: []string{"shrimp", "coconut milk", "lemongrass", "chili"}, CuisineType: "thai"},
	{Ingredients: []string{"oats", "banana", "peanut butter", "honey"}, Difficulty: "easy"},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg.DB, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	embeddingService := service.NewEmbeddingService(cfg.Embedding.CacheSize)
	llmService, err := service.NewLLMService(cfg.LLM, logger)
	if err != nil {
		logger.Fatal("failed to create LLM service", zap.Error(err))
	}
	recipeService := service.NewRecipeService(db, embeddingService, logger)

	seeded := 0
	for i := range seedRequests {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		recipe, err := llmService.GenerateRecipe(ctx, &seedRequests[i])
		if err != nil {
			cancel()
			logger.Warn("failed to generate seed recipe",
				zap.Strings("ingredients", seedRequests[i].Ingredients),
				zap.Error(err),
			)
			continue
		}
		if _, err := recipeService.SaveRecipe(ctx, recipe); err != nil {
			cancel()
			logger.Warn("failed to save seed recipe", zap.String("title", recipe.Title), zap.Error(err))
			continue
		}
		cancel()

		seeded++
		logger.Info("seeded recipe", zap.String("title", recipe.Title))
	}

	logger.Info("seeding complete", zap.Int("seeded", seeded), zap.Int("requested", len(seedRequests)))
}
