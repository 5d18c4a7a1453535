// Package combatsession provides persistence for in-progress fights. The
// store is keyed by character ID, which makes the one-active-session-per-
// character invariant structural rather than enforced by scans.
package combatsession

//go:generate mockgen -destination=mock/mock_repository.go -package=combatsessionmock github.com/questforge/questforge-api/internal/repositories/combatsession Repository

import (
	"context"

	"github.com/questforge/questforge-api/internal/entities"
)

// Repository defines the interface for combat session persistence
type Repository interface {
	// Create stores a new session for a character
	// Returns errors.AlreadyExists if the character already has an active session
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves the active session for a character
	// Returns errors.NotFound if the character has no active session
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces the stored session
	// Returns errors.NotFound if the character has no active session
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete destroys the character's session (victory, defeat, or flee)
	// Returns errors.NotFound if the character has no active session
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// CreateInput defines the input for creating a session
type CreateInput struct {
	Session *entities.CombatSession
}

// CreateOutput defines the output for creating a session
type CreateOutput struct {
	Session *entities.CombatSession
}

// GetInput defines the input for getting a session
type GetInput struct {
	CharacterID string
}

// GetOutput defines the output for getting a session
type GetOutput struct {
	Session *entities.CombatSession
}

// UpdateInput defines the input for updating a session
type UpdateInput struct {
	Session *entities.CombatSession
}

// UpdateOutput defines the output for updating a session
type UpdateOutput struct {
	Session *entities.CombatSession
}

// DeleteInput defines the input for deleting a session
type DeleteInput struct {
	CharacterID string
}

// DeleteOutput defines the output for deleting a session
type DeleteOutput struct{}
