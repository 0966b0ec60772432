package integration

import (
	"testing"

	"github.com/rs/zerolog"

	"whereabouts/db"
	"whereabouts/internal/character"
	"whereabouts/internal/location"
	"whereabouts/internal/web"
	"whereabouts/tests/testutils"
)

// serverFixture wires the full stack against a temp SQLite database.
type serverFixture struct {
	*testutils.TestServer
	Characters db.CharacterRepository
	Locations  db.LocationRepository
}

func setupServer(t *testing.T) (*serverFixture, func()) {
	factory, cleanupDB := testutils.SetupTestRepositoryFactory(t)

	characterRepo := factory.NewCharacterRepository()
	locationRepo := factory.NewLocationRepository()

	logger := zerolog.Nop()
	characterService := character.NewCharacterService(characterRepo)
	locationService := location.NewLocationService(locationRepo, characterRepo)

	router := web.SetupRoutes(
		character.NewCharacterHandlers(characterService, logger),
		location.NewLocationHandlers(locationService, logger),
	)

	server := testutils.NewTestServer(t, router)
	cleanup := func() {
		server.Close()
		cleanupDB()
	}

	return &serverFixture{TestServer: server, Characters: characterRepo, Locations: locationRepo}, cleanup
}

type characterResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	Occupation  string `json:"occupation"`
	IsSuspect   bool   `json:"is_suspect"`
}

type locationResponse struct {
	ID        int64  `json:"id"`
	Character int64  `json:"character"`
	Timestamp string `json:"timestamp"`
	Lat       string `json:"lat"`
	Lon       string `json:"lon"`
}
