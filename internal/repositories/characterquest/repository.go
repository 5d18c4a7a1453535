// Package characterquest provides persistence for per-character quest
// progress records.
package characterquest

//go:generate mockgen -destination=mock/mock_repository.go -package=characterquestmock github.com/questforge/questforge-api/internal/repositories/characterquest Repository

import (
	"context"

	"github.com/questforge/questforge-api/internal/entities"
)

// Repository defines the interface for character quest persistence
type Repository interface {
	// Create stores a new character quest record
	// Returns errors.AlreadyExists if a record with the same ID exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a record by ID
	// Returns errors.NotFound if the record doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces an existing record
	// Returns errors.NotFound if the record doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a record (quest abandoned)
	// Returns errors.NotFound if the record doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListByCharacterID retrieves all quest records for a character
	ListByCharacterID(ctx context.Context, input ListByCharacterIDInput) (*ListByCharacterIDOutput, error)
}

// CreateInput defines the input for creating a record
type CreateInput struct {
	CharacterQuest *entities.CharacterQuest
}

// CreateOutput defines the output for creating a record
type CreateOutput struct {
	CharacterQuest *entities.CharacterQuest
}

// GetInput defines the input for getting a record
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a record
type GetOutput struct {
	CharacterQuest *entities.CharacterQuest
}

// UpdateInput defines the input for updating a record
type UpdateInput struct {
	CharacterQuest *entities.CharacterQuest
}

// UpdateOutput defines the output for updating a record
type UpdateOutput struct {
	CharacterQuest *entities.CharacterQuest
}

// DeleteInput defines the input for deleting a record
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a record
type DeleteOutput struct{}

// ListByCharacterIDInput defines the input for listing by character
type ListByCharacterIDInput struct {
	CharacterID string
}

// ListByCharacterIDOutput defines the output for listing by character
type ListByCharacterIDOutput struct {
	CharacterQuests []*entities.CharacterQuest
}
