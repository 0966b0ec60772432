package location

import (
	"context"
	"fmt"
	"sort"

	"whereabouts/db"
	"whereabouts/internal/geo"
	"whereabouts/internal/query"
	"whereabouts/models"
)

// UnknownCharacterError reports a location referencing a character id that
// does not exist. Handlers surface it as a field error on `character`.
type UnknownCharacterError struct {
	ID int64
}

func (e *UnknownCharacterError) Error() string {
	return fmt.Sprintf("character %d does not exist", e.ID)
}

type LocationService struct {
	repo       db.LocationRepository
	characters db.CharacterRepository
}

func NewLocationService(repo db.LocationRepository, characters db.CharacterRepository) *LocationService {
	return &LocationService{repo: repo, characters: characters}
}

// List returns locations in insertion order, narrowed by the filter.
func (s *LocationService) List(ctx context.Context, filter models.LocationFilter) ([]*models.Location, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *LocationService) Get(ctx context.Context, id int64) (*models.Location, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *LocationService) Create(ctx context.Context, location *models.Location) (*models.Location, error) {
	if err := s.checkCharacter(ctx, location.CharacterID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, location)
}

func (s *LocationService) Update(ctx context.Context, location *models.Location) (*models.Location, error) {
	if err := s.checkCharacter(ctx, location.CharacterID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, location)
}

func (s *LocationService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Near returns the locations within params.MaxDistance meters of the
// reference point, ordered by their computed distance. Every candidate that
// passes the filter is evaluated; there is no geospatial pre-filtering.
func (s *LocationService) Near(ctx context.Context, params query.NearParams, filter models.LocationFilter) ([]*models.Location, error) {
	candidates, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	type measured struct {
		location *models.Location
		distance float64
	}

	var within []measured
	for _, l := range candidates {
		d := geo.Distance(params.Lat, params.Lon, l.Lat.Float64(), l.Lon.Float64())
		if d <= params.MaxDistance {
			within = append(within, measured{location: l, distance: d})
		}
	}

	// Stable, so equidistant records keep insertion order.
	sort.SliceStable(within, func(i, j int) bool {
		if params.Descending {
			return within[i].distance > within[j].distance
		}
		return within[i].distance < within[j].distance
	})

	locations := make([]*models.Location, len(within))
	for i, m := range within {
		locations[i] = m.location
	}
	return locations, nil
}

func (s *LocationService) checkCharacter(ctx context.Context, id int64) error {
	exists, err := s.characters.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return &UnknownCharacterError{ID: id}
	}
	return nil
}
