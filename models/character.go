package models

// Character is a person being tracked. Locations reference it by id.
type Character struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	DateOfBirth Date   `db:"date_of_birth" json:"date_of_birth"`
	Occupation  string `db:"occupation" json:"occupation"`
	IsSuspect   bool   `db:"is_suspect" json:"is_suspect"`
}
