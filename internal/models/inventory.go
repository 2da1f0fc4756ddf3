package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// InventoryItem is one ingredient a user has on hand. Identity within an
// inventory is the case-insensitive ingredient name: adding an item whose
// name matches an existing one updates that item instead of duplicating it.
type InventoryItem struct {
	IngredientName string    `json:"ingredient_name"`
	Quantity       string    `json:"quantity,omitempty"`
	AddedAt        time.Time `json:"added_at"`
}

// JSONBInventoryItems stores an inventory's items as JSONB.
type JSONBInventoryItems []InventoryItem

// Value implements the driver.Valuer interface
func (a JSONBInventoryItems) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBInventoryItems) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBInventoryItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// UserInventory is a user's ingredient inventory. Each user owns exactly
// one record; it is mutated only through add/remove operations.
type UserInventory struct {
	UserID    uuid.UUID           `gorm:"type:uuid;primary_key" json:"user_id"`
	Items     JSONBInventoryItems `gorm:"type:jsonb;not null;default:'[]'" json:"items"`
	UpdatedAt time.Time           `json:"updated_at"`
}
