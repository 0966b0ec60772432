package models

import (
	"time"
)

// Location is a timestamped coordinate record owned by a single character.
// Deleting the character deletes its locations.
type Location struct {
	ID          int64      `db:"id" json:"id"`
	CharacterID int64      `db:"character_id" json:"character"`
	Timestamp   time.Time  `db:"timestamp" json:"timestamp"`
	Lat         Coordinate `db:"lat" json:"lat"`
	Lon         Coordinate `db:"lon" json:"lon"`
}

// LocationFilter narrows a location listing. Zero fields are ignored; set
// fields combine with AND semantics.
type LocationFilter struct {
	CharacterID *int64
	From        *time.Time
	To          *time.Time
}

// Matches reports whether l passes every set predicate. The SQLite repository
// applies the same predicates in SQL; this form exists so services can be
// tested against in-memory stores.
func (f LocationFilter) Matches(l *Location) bool {
	if f.CharacterID != nil && l.CharacterID != *f.CharacterID {
		return false
	}
	if f.From != nil && l.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && l.Timestamp.After(*f.To) {
		return false
	}
	return true
}
