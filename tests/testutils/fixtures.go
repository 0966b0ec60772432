package testutils

import (
	"time"

	"whereabouts/models"

	"github.com/shopspring/decimal"
)

func CreateTestCharacter() *models.Character {
	dateOfBirth, _ := models.ParseDate("1970-11-01")

	return &models.Character{
		Name:        "Walter White",
		DateOfBirth: dateOfBirth,
		Occupation:  "Teacher",
	}
}

func CreateTestCharacterNamed(name, dateOfBirth, occupation string) *models.Character {
	character := CreateTestCharacter()
	character.Name = name
	character.Occupation = occupation
	character.DateOfBirth, _ = models.ParseDate(dateOfBirth)
	return character
}

func CreateTestLocation(characterID int64, lat, lon string) *models.Location {
	timestamp, _ := time.Parse(time.RFC3339, "2020-01-01T00:00:00Z")

	return &models.Location{
		CharacterID: characterID,
		Timestamp:   timestamp,
		Lat:         mustCoordinate(lat),
		Lon:         mustCoordinate(lon),
	}
}

func mustCoordinate(s string) models.Coordinate {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return models.NewCoordinate(d)
}
