// Package cooldown provides persistence for per-character action cooldowns,
// currently just the explore gate.
package cooldown

//go:generate mockgen -destination=mock/mock_repository.go -package=cooldownmock github.com/questforge/questforge-api/internal/repositories/cooldown Repository

import (
	"context"
	"time"
)

// Repository defines the interface for cooldown persistence
type Repository interface {
	// Get returns the epoch-ms timestamp before which the character may not
	// explore again. Zero means no active cooldown.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Set records a cooldown. TTL should cover the cooldown window so stale
	// entries expire on their own.
	Set(ctx context.Context, input SetInput) (*SetOutput, error)
}

// GetInput defines the input for reading a cooldown
type GetInput struct {
	CharacterID string
}

// GetOutput defines the output for reading a cooldown
type GetOutput struct {
	NextAllowed int64
}

// SetInput defines the input for recording a cooldown
type SetInput struct {
	CharacterID string
	NextAllowed int64
	TTL         time.Duration
}

// SetOutput defines the output for recording a cooldown
type SetOutput struct{}
