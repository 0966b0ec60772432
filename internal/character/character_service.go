package character

import (
	"context"
	"sort"
	"strings"

	"whereabouts/db"
	"whereabouts/internal/query"
	"whereabouts/models"
)

// Filter holds the optional list parameters as given by the caller. Fields
// left empty are absent. Present fields combine with OR semantics: a record
// matching any one of them is included.
type Filter struct {
	Name       string
	Suspect    string
	Occupation string
}

func (f Filter) active() bool {
	return f.Name != "" || f.Suspect != "" || f.Occupation != ""
}

// matches reports whether c satisfies at least one present predicate. Text
// predicates are case-insensitive substring matches; suspect compares
// against the literal "true" (lowercased), anything else meaning false.
func (f Filter) matches(c *models.Character) bool {
	if f.Name != "" && strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Name)) {
		return true
	}
	if f.Suspect != "" && c.IsSuspect == (strings.ToLower(f.Suspect) == "true") {
		return true
	}
	if f.Occupation != "" && strings.Contains(strings.ToLower(c.Occupation), strings.ToLower(f.Occupation)) {
		return true
	}
	return false
}

type CharacterService struct {
	repo db.CharacterRepository
}

func NewCharacterService(repo db.CharacterRepository) *CharacterService {
	return &CharacterService{repo: repo}
}

// List returns all characters passing the filter, sorted by the ordering.
// The sort is stable, so ties keep insertion order.
func (s *CharacterService) List(ctx context.Context, filter Filter, ordering query.Ordering) ([]*models.Character, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	characters := all
	if filter.active() {
		characters = make([]*models.Character, 0, len(all))
		for _, c := range all {
			if filter.matches(c) {
				characters = append(characters, c)
			}
		}
	}

	// Stable sort keeps insertion order on ties in both directions.
	sort.SliceStable(characters, func(i, j int) bool {
		cmp := compare(characters[i], characters[j], ordering.Field)
		if ordering.Ascending {
			return cmp < 0
		}
		return cmp > 0
	})

	return characters, nil
}

func compare(a, b *models.Character, field string) int {
	if field == query.OrderByDateOfBirth {
		switch {
		case a.DateOfBirth.Before(b.DateOfBirth):
			return -1
		case b.DateOfBirth.Before(a.DateOfBirth):
			return 1
		}
		return 0
	}
	return strings.Compare(a.Name, b.Name)
}

func (s *CharacterService) Get(ctx context.Context, id int64) (*models.Character, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CharacterService) Create(ctx context.Context, character *models.Character) (*models.Character, error) {
	return s.repo.Create(ctx, character)
}

func (s *CharacterService) Update(ctx context.Context, character *models.Character) (*models.Character, error) {
	return s.repo.Update(ctx, character)
}

// Delete removes a character. Its locations are removed with it.
func (s *CharacterService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
