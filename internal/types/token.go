package types

import (
	"github.com/google/uuid"
)

// TokenClaims represents the claims carried by an API token.
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}
