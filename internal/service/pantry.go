package service

import (
	"context"
	"fmt"

	"github.com/Kerhoff/recipebox/internal/grocery"
	"github.com/Kerhoff/recipebox/internal/models"
)

// ListPantryStaples returns the staple configs in filter order.
func (s *Service) ListPantryStaples(ctx context.Context, onlyEnabled bool) ([]*models.PantryStapleConfig, error) {
	staples, err := s.repos.Pantry.List(ctx, onlyEnabled)
	if err != nil {
		return nil, fmt.Errorf("failed to list pantry staples: %w", err)
	}
	return staples, nil
}

// SavePantryStaple creates the config when it has no ID and updates it
// otherwise. Configs saved here are marked custom.
func (s *Service) SavePantryStaple(ctx context.Context, staple *models.PantryStapleConfig) (*models.PantryStapleConfig, error) {
	if err := staple.Validate(); err != nil {
		return nil, err
	}
	staple.Custom = true

	if staple.ID == 0 {
		created, err := s.repos.Pantry.Create(ctx, staple)
		if err != nil {
			return nil, fmt.Errorf("failed to create pantry staple %q: %w", staple.Pattern, err)
		}
		return created, nil
	}
	updated, err := s.repos.Pantry.Update(ctx, staple)
	if err != nil {
		return nil, fmt.Errorf("failed to update pantry staple %d: %w", staple.ID, err)
	}
	return updated, nil
}

// SetPantryStapleEnabled switches a config on or off.
func (s *Service) SetPantryStapleEnabled(ctx context.Context, id int64, enabled bool) error {
	if err := s.repos.Pantry.SetEnabled(ctx, id, enabled); err != nil {
		return fmt.Errorf("failed to set enabled on pantry staple %d: %w", id, err)
	}
	return nil
}

// DeletePantryStaple removes a config.
func (s *Service) DeletePantryStaple(ctx context.Context, id int64) error {
	if err := s.repos.Pantry.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pantry staple %d: %w", id, err)
	}
	return nil
}

// SeedPantryStaples inserts the default staples when no config exists yet.
// It returns the number inserted.
func (s *Service) SeedPantryStaples(ctx context.Context) (int, error) {
	existing, err := s.repos.Pantry.List(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("failed to list pantry staples: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	n := 0
	for _, staple := range grocery.DefaultPantryStaples() {
		staple := staple
		if _, err := s.repos.Pantry.Create(ctx, &staple); err != nil {
			return n, fmt.Errorf("failed to seed pantry staple %q: %w", staple.Pattern, err)
		}
		n++
	}
	s.logger.WithField("staples", n).Info("Seeded default pantry staples")
	return n, nil
}
