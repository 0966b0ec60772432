package db

import (
	"context"
	"database/sql"
	"errors"

	"whereabouts/models"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repository defines a common interface for all repositories
type Repository interface {
	Close() error
}

// CharacterRepository defines the interface for character operations
type CharacterRepository interface {
	Repository
	FindByID(ctx context.Context, id int64) (*models.Character, error)
	FindAll(ctx context.Context) ([]*models.Character, error)
	Create(ctx context.Context, character *models.Character) (*models.Character, error)
	Update(ctx context.Context, character *models.Character) (*models.Character, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// LocationRepository defines the interface for location operations
type LocationRepository interface {
	Repository
	FindByID(ctx context.Context, id int64) (*models.Location, error)
	FindAll(ctx context.Context, filter models.LocationFilter) ([]*models.Location, error)
	Create(ctx context.Context, location *models.Location) (*models.Location, error)
	Update(ctx context.Context, location *models.Location) (*models.Location, error)
	Delete(ctx context.Context, id int64) error
}

// RepositoryFactory creates repositories backed by the SQLite database
type RepositoryFactory struct {
	DB *sql.DB
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(db *sql.DB) *RepositoryFactory {
	return &RepositoryFactory{DB: db}
}

// NewCharacterRepository creates a new character repository
func (f *RepositoryFactory) NewCharacterRepository() CharacterRepository {
	return NewSQLiteCharacterRepository(f.DB)
}

// NewLocationRepository creates a new location repository
func (f *RepositoryFactory) NewLocationRepository() LocationRepository {
	return NewSQLiteLocationRepository(f.DB)
}
