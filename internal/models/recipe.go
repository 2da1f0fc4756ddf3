package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
)

// Difficulty levels a recipe may carry. Stored lowercase.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether s is one of the allowed difficulty values.
func ValidDifficulty(s string) bool {
	return s == DifficultyEasy || s == DifficultyMedium || s == DifficultyHard
}

// Ingredient is a single recipe ingredient with a free-text quantity and
// optional unit.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit,omitempty"`
}

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
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

// JSONBIngredients stores a recipe's ingredient list as JSONB.
type JSONBIngredients []Ingredient

// Value implements the driver.Valuer interface
func (a JSONBIngredients) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBIngredients) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBIngredients{}
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

// Recipe is a generated recipe. It is created once by the generation
// pipeline and treated as immutable afterwards, except for the embedding
// vector attached for similarity search.
type Recipe struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Title              string           `gorm:"size:255;not null" json:"title"`
	Description        string           `gorm:"type:text" json:"description"`
	Ingredients        JSONBIngredients `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions       JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	CookingTimeMinutes int              `gorm:"not null" json:"cooking_time_minutes"`
	Servings           int              `gorm:"not null" json:"servings"`
	Difficulty         string           `gorm:"size:16;not null" json:"difficulty"`
	CuisineType        string           `gorm:"size:100" json:"cuisine_type,omitempty"`
	DietaryTags        JSONBStringArray `gorm:"type:jsonb;default:'[]'" json:"dietary_tags"`
	ImageURL           string           `gorm:"size:512" json:"image_url,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	Embedding          pgvector.Vector  `gorm:"type:vector(256)" json:"-"`
}
