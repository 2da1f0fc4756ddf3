package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestInventoryService(t *testing.T) (*InventoryService, *RecipeService) {
	t.Helper()
	db := setupTestDB(t)
	recipes := NewRecipeService(db, NewEmbeddingService(100), zap.NewNop())
	return NewInventoryService(db, recipes, zap.NewNop()), recipes
}

func TestGetInventoryEmptyForNewUser(t *testing.T) {
	svc, _ := newTestInventoryService(t)
	userID := uuid.New()

	inventory, err := svc.GetInventory(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, inventory.UserID)
	assert.Empty(t, inventory.Items)
}

func TestAddItem(t *testing.T) {
	svc, _ := newTestInventoryService(t)
	ctx := context.Background()
	userID := uuid.New()

	inventory, err := svc.AddItem(ctx, userID, "Tomatoes", "3")
	require.NoError(t, err)
	require.Len(t, inventory.Items, 1)
	assert.Equal(t, "Tomatoes", inventory.Items[0].IngredientName)
	assert.Equal(t, "3", inventory.Items[0].Quantity)
	assert.False(t, inventory.Items[0].AddedAt.IsZero())

	// persisted across reads
	got, err := svc.GetInventory(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestAddItemUpsertsCaseInsensitive(t *testing.T) {
	svc, _ := newTestInventoryService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.AddItem(ctx, userID, "Tomatoes", "3")
	require.NoError(t, err)
	inventory, err := svc.AddItem(ctx, userID, "tomatoes", "5")
	require.NoError(t, err)

	require.Len(t, inventory.Items, 1)
	assert.Equal(t, "5", inventory.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	svc, _ := newTestInventoryService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.AddItem(ctx, userID, "Tomatoes", "3")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, "Basil", "1 bunch")
	require.NoError(t, err)

	inventory, err := svc.RemoveItem(ctx, userID, "TOMATOES")
	require.NoError(t, err)
	require.Len(t, inventory.Items, 1)
	assert.Equal(t, "Basil", inventory.Items[0].IngredientName)
}

func TestRemoveItemNotFound(t *testing.T) {
	svc, _ := newTestInventoryService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.RemoveItem(ctx, userID, "anything")
	assert.ErrorIs(t, err, ErrInventoryNotFound)

	_, err = svc.AddItem(ctx, userID, "Tomatoes", "3")
	require.NoError(t, err)
	_, err = svc.RemoveItem(ctx, userID, "basil")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestInventoryMatchRecipes(t *testing.T) {
	svc, recipes := newTestInventoryService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := recipes.SaveRecipe(ctx, storedRecipe("Carbonara", "spaghetti", "eggs", "parmesan", "bacon"))
	require.NoError(t, err)
	_, err = recipes.SaveRecipe(ctx, storedRecipe("Big Stew", "beef", "carrots", "onion", "potato", "red wine"))
	require.NoError(t, err)
	_, err = recipes.SaveRecipe(ctx, storedRecipe("Sushi", "rice", "nori", "salmon"))
	require.NoError(t, err)

	for _, item := range []string{"Spaghetti", "eggs", "Parmesan", "bacon", "beef", "carrots", "onion", "potato"} {
		_, err := svc.AddItem(ctx, userID, item, "1")
		require.NoError(t, err)
	}

	result, err := svc.MatchRecipes(ctx, userID)
	require.NoError(t, err)

	require.Len(t, result.ExactMatches, 1)
	assert.Equal(t, "Carbonara", result.ExactMatches[0].Title)

	require.Len(t, result.PartialMatches, 1)
	assert.Equal(t, "Big Stew", result.PartialMatches[0].Title)
	assert.Equal(t, []string{"red wine"}, result.PartialMatches[0].MissingIngredients)
}

func TestInventoryMatchRecipesEmptyInventory(t *testing.T) {
	svc, recipes := newTestInventoryService(t)
	ctx := context.Background()

	_, err := recipes.SaveRecipe(ctx, storedRecipe("Toast", "bread"))
	require.NoError(t, err)

	result, err := svc.MatchRecipes(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, result.ExactMatches)
	assert.Empty(t, result.PartialMatches)
}
