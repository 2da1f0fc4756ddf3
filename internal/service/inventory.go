package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flavorforge/backend/internal/models"
)

var (
	// ErrInventoryNotFound is returned when a user has no inventory record.
	ErrInventoryNotFound = errors.New("inventory not found")
	// ErrItemNotFound is returned when removing an ingredient the inventory
	// does not contain.
	ErrItemNotFound = errors.New("ingredient not found in inventory")
)

// matchScanLimit bounds how many recipes a single match request scans.
const matchScanLimit = 100

// InventoryService manages per-user ingredient inventories and matches
// stored recipes against them. Concurrent updates to the same inventory are
// read-modify-write through the database; the last write wins.
type InventoryService struct {
	db      *gorm.DB
	recipes RecipeServiceInterface
	logger  *zap.Logger
}

// NewInventoryService creates a new InventoryService instance
func NewInventoryService(db *gorm.DB, recipes RecipeServiceInterface, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		db:      db,
		recipes: recipes,
		logger:  logger,
	}
}

// GetInventory returns the user's inventory, or an empty one if the user
// has never stored an item.
func (s *InventoryService) GetInventory(ctx context.Context, userID uuid.UUID) (*models.UserInventory, error) {
	inventory, err := s.fetch(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserInventory{
			UserID:    userID,
			Items:     models.JSONBInventoryItems{},
			UpdatedAt: time.Now().UTC(),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return inventory, nil
}

// AddItem adds an ingredient to the user's inventory. Item identity is the
// case-insensitive ingredient name: adding a name that already exists
// updates that item's quantity and timestamp instead of duplicating it.
func (s *InventoryService) AddItem(ctx context.Context, userID uuid.UUID, ingredientName, quantity string) (*models.UserInventory, error) {
	now := time.Now().UTC()

	inventory, err := s.fetch(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		inventory = &models.UserInventory{
			UserID: userID,
			Items:  models.JSONBInventoryItems{},
		}
	} else if err != nil {
		return nil, err
	}

	key := IngredientKey(ingredientName)
	updated := false
	for i := range inventory.Items {
		if IngredientKey(inventory.Items[i].IngredientName) == key {
			inventory.Items[i].Quantity = quantity
			inventory.Items[i].AddedAt = now
			updated = true
			break
		}
	}
	if !updated {
		inventory.Items = append(inventory.Items, models.InventoryItem{
			IngredientName: ingredientName,
			Quantity:       quantity,
			AddedAt:        now,
		})
	}
	inventory.UpdatedAt = now

	if err := s.save(ctx, inventory); err != nil {
		return nil, err
	}
	return inventory, nil
}

// RemoveItem removes an ingredient from the user's inventory by its
// case-insensitive name.
func (s *InventoryService) RemoveItem(ctx context.Context, userID uuid.UUID, ingredientName string) (*models.UserInventory, error) {
	inventory, err := s.fetch(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInventoryNotFound
	}
	if err != nil {
		return nil, err
	}

	key := IngredientKey(ingredientName)
	kept := make(models.JSONBInventoryItems, 0, len(inventory.Items))
	for _, item := range inventory.Items {
		if IngredientKey(item.IngredientName) != key {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(inventory.Items) {
		return nil, ErrItemNotFound
	}

	inventory.Items = kept
	inventory.UpdatedAt = time.Now().UTC()

	if err := s.save(ctx, inventory); err != nil {
		return nil, err
	}
	return inventory, nil
}

// MatchRecipes classifies stored recipes against the user's inventory into
// exact and partial match tiers. An empty inventory yields an empty result
// without scanning recipes.
func (s *InventoryService) MatchRecipes(ctx context.Context, userID uuid.UUID) (*MatchResult, error) {
	inventory, err := s.GetInventory(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := MatchResult{
		ExactMatches:   []models.Recipe{},
		PartialMatches: []PartialMatch{},
	}
	if len(inventory.Items) == 0 {
		return &result, nil
	}

	recipes, err := s.recipes.ListRecipes(ctx, matchScanLimit, 0)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(inventory.Items))
	for _, item := range inventory.Items {
		names = append(names, item.IngredientName)
	}

	result = MatchRecipes(names, recipes)
	return &result, nil
}

func (s *InventoryService) fetch(ctx context.Context, userID uuid.UUID) (*models.UserInventory, error) {
	var inventory models.UserInventory
	if err := s.db.WithContext(ctx).First(&inventory, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (s *InventoryService) save(ctx context.Context, inventory *models.UserInventory) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(inventory).Error
}
