package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kerhoff/recipebox/internal/models"
)

// LookupSubstitutes returns the substitutes for an ingredient, best first.
// The ingredient is matched on its lower-cased name; nothing found yields
// an empty slice.
func (s *Service) LookupSubstitutes(ctx context.Context, ingredient string) ([]models.Substitute, error) {
	key := strings.ToLower(strings.TrimSpace(ingredient))
	sub, err := s.repos.Substitutions.GetByIngredient(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up substitutes for %q: %w", key, err)
	}
	if sub == nil {
		return []models.Substitute{}, nil
	}
	return sub.Ranked(), nil
}

// ListSubstitutions returns every stored entry.
func (s *Service) ListSubstitutions(ctx context.Context) ([]*models.IngredientSubstitution, error) {
	subs, err := s.repos.Substitutions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list substitutions: %w", err)
	}
	return subs, nil
}

// AddUserSubstitution stores a user-defined entry, replacing any existing
// entry for the same ingredient.
func (s *Service) AddUserSubstitution(ctx context.Context, sub *models.IngredientSubstitution) (*models.IngredientSubstitution, error) {
	sub.Ingredient = strings.ToLower(strings.TrimSpace(sub.Ingredient))
	sub.UserAdded = true
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	saved, err := s.repos.Substitutions.Upsert(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to save substitution for %q: %w", sub.Ingredient, err)
	}
	return saved, nil
}

// SeedSubstitutions stores the built-in table. Entries the user added
// themselves are left alone. It returns the number written.
func (s *Service) SeedSubstitutions(ctx context.Context) (int, error) {
	existing, err := s.repos.Substitutions.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list substitutions: %w", err)
	}
	userOwned := make(map[string]bool)
	for _, e := range existing {
		if e.UserAdded {
			userOwned[e.Ingredient] = true
		}
	}

	n := 0
	for _, sub := range DefaultSubstitutions() {
		if userOwned[sub.Ingredient] {
			continue
		}
		sub := sub
		if _, err := s.repos.Substitutions.Upsert(ctx, &sub); err != nil {
			return n, fmt.Errorf("failed to seed substitution for %q: %w", sub.Ingredient, err)
		}
		n++
	}
	return n, nil
}

// DefaultSubstitutions is the built-in substitution table.
func DefaultSubstitutions() []models.IngredientSubstitution {
	return []models.IngredientSubstitution{
		{
			Ingredient: "butter",
			Category:   "dairy",
			Substitutes: []models.Substitute{
				{Name: "unsalted margarine", Ratio: 1, Rank: 1, ConversionNote: "1:1"},
				{Name: "coconut oil", Ratio: 1, Rank: 3, ConversionNote: "1:1", Note: "adds a light coconut flavour", DietaryTags: []string{"vegan", "dairy-free"}},
				{Name: "olive oil", Ratio: 0.75, Rank: 4, ConversionNote: "3/4 cup per cup of butter", Note: "savoury dishes only", DietaryTags: []string{"vegan", "dairy-free"}},
				{Name: "applesauce", Ratio: 0.5, Rank: 6, ConversionNote: "1/2 cup per cup of butter", Note: "baking only; denser crumb", DietaryTags: []string{"vegan", "low-fat"}},
			},
		},
		{
			Ingredient: "buttermilk",
			Category:   "dairy",
			Substitutes: []models.Substitute{
				{Name: "milk with lemon juice", Ratio: 1, Rank: 1, ConversionNote: "1 tbsp lemon juice per cup of milk, rest 5 minutes"},
				{Name: "plain yogurt thinned with milk", Ratio: 1, Rank: 2, ConversionNote: "3/4 cup yogurt + 1/4 cup milk"},
				{Name: "soy milk with vinegar", Ratio: 1, Rank: 3, ConversionNote: "1 tbsp vinegar per cup", DietaryTags: []string{"vegan", "dairy-free"}},
			},
		},
		{
			Ingredient: "egg",
			Category:   "eggs",
			Substitutes: []models.Substitute{
				{Name: "flax egg", Ratio: 1, Rank: 2, ConversionNote: "1 tbsp ground flaxseed + 3 tbsp water per egg", DietaryTags: []string{"vegan"}},
				{Name: "mashed banana", Ratio: 1, Rank: 4, ConversionNote: "1/4 cup per egg", Note: "sweet bakes only", DietaryTags: []string{"vegan"}},
				{Name: "aquafaba", Ratio: 1, Rank: 3, ConversionNote: "3 tbsp per egg", DietaryTags: []string{"vegan"}},
			},
		},
		{
			Ingredient: "heavy cream",
			Category:   "dairy",
			Substitutes: []models.Substitute{
				{Name: "milk and melted butter", Ratio: 1, Rank: 1, ConversionNote: "3/4 cup milk + 1/4 cup butter", Note: "will not whip"},
				{Name: "full-fat coconut milk", Ratio: 1, Rank: 2, DietaryTags: []string{"vegan", "dairy-free"}},
				{Name: "evaporated milk", Ratio: 1, Rank: 3},
			},
		},
		{
			Ingredient: "sour cream",
			Category:   "dairy",
			Substitutes: []models.Substitute{
				{Name: "greek yogurt", Ratio: 1, Rank: 1, DietaryTags: []string{"high-protein"}},
				{Name: "cashew cream", Ratio: 1, Rank: 3, DietaryTags: []string{"vegan", "dairy-free"}},
			},
		},
		{
			Ingredient: "all-purpose flour",
			Category:   "baking",
			Substitutes: []models.Substitute{
				{Name: "cake flour", Ratio: 1.125, Rank: 2, ConversionNote: "1 cup + 2 tbsp per cup"},
				{Name: "gluten-free flour blend", Ratio: 1, Rank: 3, DietaryTags: []string{"gluten-free"}},
				{Name: "whole wheat flour", Ratio: 0.75, Rank: 4, Note: "mix with all-purpose for lighter results"},
			},
		},
		{
			Ingredient: "baking powder",
			Category:   "baking",
			Substitutes: []models.Substitute{
				{Name: "baking soda and cream of tartar", Ratio: 1, Rank: 1, ConversionNote: "1/4 tsp soda + 1/2 tsp cream of tartar per tsp"},
			},
		},
		{
			Ingredient: "brown sugar",
			Category:   "baking",
			Substitutes: []models.Substitute{
				{Name: "white sugar and molasses", Ratio: 1, Rank: 1, ConversionNote: "1 tbsp molasses per cup of sugar"},
				{Name: "coconut sugar", Ratio: 1, Rank: 2},
			},
		},
		{
			Ingredient: "soy sauce",
			Category:   "condiments",
			Substitutes: []models.Substitute{
				{Name: "tamari", Ratio: 1, Rank: 1, DietaryTags: []string{"gluten-free"}},
				{Name: "coconut aminos", Ratio: 1, Rank: 2, Note: "sweeter and less salty", DietaryTags: []string{"gluten-free", "soy-free"}},
			},
		},
		{
			Ingredient: "wine",
			Category:   "liquids",
			Substitutes: []models.Substitute{
				{Name: "stock with a splash of vinegar", Ratio: 1, Rank: 1, DietaryTags: []string{"alcohol-free"}},
				{Name: "grape juice", Ratio: 1, Rank: 3, Note: "sweeter", DietaryTags: []string{"alcohol-free"}},
			},
		},
		{
			Ingredient: "fresh herbs",
			Category:   "herbs",
			Substitutes: []models.Substitute{
				{Name: "dried herbs", Ratio: 0.33, Rank: 1, ConversionNote: "1 tsp dried per tbsp fresh"},
			},
		},
		{
			Ingredient: "garlic",
			Category:   "produce",
			Substitutes: []models.Substitute{
				{Name: "garlic powder", Ratio: 0.125, Rank: 1, ConversionNote: "1/8 tsp per clove"},
				{Name: "shallot", Ratio: 1, Rank: 4, Note: "milder flavour"},
			},
		},
	}
}
