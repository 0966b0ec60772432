package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"whereabouts/models"
)

// timestampLayout is fixed-width UTC so stored timestamps compare correctly
// as strings in SQL range predicates.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// SQLiteCharacterRepository implements the CharacterRepository interface for SQLite
type SQLiteCharacterRepository struct {
	db *sql.DB
}

// NewSQLiteCharacterRepository creates a new SQLiteCharacterRepository
func NewSQLiteCharacterRepository(db *sql.DB) *SQLiteCharacterRepository {
	return &SQLiteCharacterRepository{db: db}
}

// Close closes the database connection
func (r *SQLiteCharacterRepository) Close() error {
	return r.db.Close()
}

func scanCharacter(row interface{ Scan(...any) error }) (*models.Character, error) {
	var character models.Character
	var dateOfBirth string

	err := row.Scan(&character.ID, &character.Name, &dateOfBirth, &character.Occupation, &character.IsSuspect)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning character: %w", err)
	}

	character.DateOfBirth, err = models.ParseDate(dateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("error parsing stored date_of_birth: %w", err)
	}

	return &character, nil
}

// FindByID finds a character by ID
func (r *SQLiteCharacterRepository) FindByID(ctx context.Context, id int64) (*models.Character, error) {
	query := `SELECT id, name, date_of_birth, occupation, is_suspect FROM characters WHERE id = ?`
	return scanCharacter(r.db.QueryRowContext(ctx, query, id))
}

// FindAll finds all characters in insertion order
func (r *SQLiteCharacterRepository) FindAll(ctx context.Context) ([]*models.Character, error) {
	query := `SELECT id, name, date_of_birth, occupation, is_suspect FROM characters ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying characters: %w", err)
	}
	defer rows.Close()

	var characters []*models.Character
	for rows.Next() {
		character, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		characters = append(characters, character)
	}

	return characters, rows.Err()
}

// Create inserts a character and assigns its generated id
func (r *SQLiteCharacterRepository) Create(ctx context.Context, character *models.Character) (*models.Character, error) {
	query := `INSERT INTO characters (name, date_of_birth, occupation, is_suspect) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, character.Name, character.DateOfBirth.String(), character.Occupation, character.IsSuspect)
	if err != nil {
		return nil, fmt.Errorf("error inserting character: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error reading character id: %w", err)
	}
	character.ID = id

	return character, nil
}

// Update replaces a stored character
func (r *SQLiteCharacterRepository) Update(ctx context.Context, character *models.Character) (*models.Character, error) {
	query := `UPDATE characters SET name = ?, date_of_birth = ?, occupation = ?, is_suspect = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, character.Name, character.DateOfBirth.String(), character.Occupation, character.IsSuspect, character.ID)
	if err != nil {
		return nil, fmt.Errorf("error updating character: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error checking updated character: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return character, nil
}

// Delete deletes a character by ID. Its locations go with it via the
// foreign key cascade.
func (r *SQLiteCharacterRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM characters WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deleting character: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted character: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Exists reports whether a character with the given id is stored
func (r *SQLiteCharacterRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT COUNT(*) FROM characters WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("error counting characters: %w", err)
	}

	return count > 0, nil
}

// SQLiteLocationRepository implements the LocationRepository interface for SQLite
type SQLiteLocationRepository struct {
	db *sql.DB
}

// NewSQLiteLocationRepository creates a new SQLiteLocationRepository
func NewSQLiteLocationRepository(db *sql.DB) *SQLiteLocationRepository {
	return &SQLiteLocationRepository{db: db}
}

// Close closes the database connection
func (r *SQLiteLocationRepository) Close() error {
	return r.db.Close()
}

func scanLocation(row interface{ Scan(...any) error }) (*models.Location, error) {
	var location models.Location
	var timestamp, lat, lon string

	err := row.Scan(&location.ID, &location.CharacterID, &timestamp, &lat, &lon)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning location: %w", err)
	}

	location.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return nil, fmt.Errorf("error parsing stored timestamp: %w", err)
	}
	location.Lat, err = models.ParseCoordinate(lat)
	if err != nil {
		return nil, fmt.Errorf("error parsing stored lat: %w", err)
	}
	location.Lon, err = models.ParseCoordinate(lon)
	if err != nil {
		return nil, fmt.Errorf("error parsing stored lon: %w", err)
	}

	return &location, nil
}

// FindByID finds a location by ID
func (r *SQLiteLocationRepository) FindByID(ctx context.Context, id int64) (*models.Location, error) {
	query := `SELECT id, character_id, timestamp, lat, lon FROM locations WHERE id = ?`
	return scanLocation(r.db.QueryRowContext(ctx, query, id))
}

// FindAll finds locations matching the filter, in insertion order. Zero
// filter fields are ignored.
func (r *SQLiteLocationRepository) FindAll(ctx context.Context, filter models.LocationFilter) ([]*models.Location, error) {
	query := `SELECT id, character_id, timestamp, lat, lon FROM locations`
	var conditions []string
	var args []any

	if filter.CharacterID != nil {
		conditions = append(conditions, "character_id = ?")
		args = append(args, *filter.CharacterID)
	}
	if filter.From != nil {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, formatTimestamp(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, formatTimestamp(*filter.To))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying locations: %w", err)
	}
	defer rows.Close()

	var locations []*models.Location
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}

	return locations, rows.Err()
}

// Create inserts a location and assigns its generated id
func (r *SQLiteLocationRepository) Create(ctx context.Context, location *models.Location) (*models.Location, error) {
	query := `INSERT INTO locations (character_id, timestamp, lat, lon) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		location.CharacterID, formatTimestamp(location.Timestamp), location.Lat.String(), location.Lon.String())
	if err != nil {
		return nil, fmt.Errorf("error inserting location: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error reading location id: %w", err)
	}
	location.ID = id

	return location, nil
}

// Update replaces a stored location
func (r *SQLiteLocationRepository) Update(ctx context.Context, location *models.Location) (*models.Location, error) {
	query := `UPDATE locations SET character_id = ?, timestamp = ?, lat = ?, lon = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		location.CharacterID, formatTimestamp(location.Timestamp), location.Lat.String(), location.Lon.String(), location.ID)
	if err != nil {
		return nil, fmt.Errorf("error updating location: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error checking updated location: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return location, nil
}

// Delete deletes a location by ID
func (r *SQLiteLocationRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM locations WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deleting location: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted location: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
