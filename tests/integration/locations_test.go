package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whereabouts/internal/query"
	"whereabouts/tests/testutils"
)

func TestLocationEndpoints(t *testing.T) {
	server, cleanup := setupServer(t)
	defer cleanup()

	ctx := context.Background()
	mainCharacter, err := server.Characters.Create(ctx, testutils.CreateTestCharacter())
	require.NoError(t, err)

	t.Run("retrieve location successfully", func(t *testing.T) {
		created, err := server.Locations.Create(ctx, testutils.CreateTestLocation(mainCharacter.ID, "10", "10"))
		require.NoError(t, err)

		resp := server.GET(fmt.Sprintf("/locations/%d/", created.ID))

		var got locationResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		assert.Equal(t, mainCharacter.ID, got.Character)
		assert.Equal(t, "2020-01-01T00:00:00Z", got.Timestamp)
		assert.Equal(t, "10.000000", got.Lat)
		assert.Equal(t, "10.000000", got.Lon)
	})

	t.Run("retrieve non-existent location", func(t *testing.T) {
		resp := server.GET("/locations/999/")
		testutils.AssertDetailResponse(t, resp, http.StatusNotFound, "Not found.")
	})

	t.Run("list locations", func(t *testing.T) {
		resp := server.GET("/locations/")

		var got []locationResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		assert.NotEmpty(t, got)
		assert.Equal(t, "10.000000", got[0].Lat)
	})

	t.Run("create location successfully", func(t *testing.T) {
		body := map[string]any{
			"character": mainCharacter.ID,
			"timestamp": "2023-01-01T18:59:00.618000Z",
			"lat":       "50.00",
			"lon":       "40.00",
		}
		resp := server.POST("/locations/", body)

		var got locationResponse
		testutils.AssertJSONResponse(t, resp, http.StatusCreated, &got)
		assert.Equal(t, mainCharacter.ID, got.Character)
		assert.Equal(t, "2023-01-01T18:59:00.618Z", got.Timestamp)
		assert.Equal(t, "50.000000", got.Lat)
		assert.Equal(t, "40.000000", got.Lon)
	})

	t.Run("create location with missing field", func(t *testing.T) {
		resp := server.POST("/locations/", map[string]any{"character": mainCharacter.ID})
		testutils.AssertFieldErrorResponse(t, resp, "timestamp", "This field is required.")
	})

	t.Run("create location with non-existent character", func(t *testing.T) {
		body := map[string]any{
			"character": 9999,
			"timestamp": "2020-01-01T00:00:00Z",
			"lat":       "10",
			"lon":       "10",
		}
		resp := server.POST("/locations/", body)
		testutils.AssertFieldErrorResponse(t, resp, "character", `Invalid pk "9999" - object does not exist.`)
	})

	t.Run("update location with PUT", func(t *testing.T) {
		created, err := server.Locations.Create(ctx, testutils.CreateTestLocation(mainCharacter.ID, "10", "10"))
		require.NoError(t, err)

		body := map[string]any{
			"character": mainCharacter.ID,
			"timestamp": "2023-01-01T18:59:00.618000Z",
			"lat":       "50.00",
			"lon":       "40.00",
		}
		resp := server.PUT(fmt.Sprintf("/locations/%d/", created.ID), body)

		var got locationResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		assert.Equal(t, "50.000000", got.Lat)
		assert.Equal(t, "40.000000", got.Lon)
	})

	t.Run("update location with null character", func(t *testing.T) {
		created, err := server.Locations.Create(ctx, testutils.CreateTestLocation(mainCharacter.ID, "10", "10"))
		require.NoError(t, err)

		body := map[string]any{
			"character": nil,
			"timestamp": "2023-01-01T18:59:00.618000Z",
			"lat":       "50.00",
			"lon":       "40.00",
		}
		resp := server.PUT(fmt.Sprintf("/locations/%d/", created.ID), body)
		testutils.AssertFieldErrorResponse(t, resp, "character", "This field may not be null.")
	})

	t.Run("partial update changes only the given field", func(t *testing.T) {
		created, err := server.Locations.Create(ctx, testutils.CreateTestLocation(mainCharacter.ID, "10", "10"))
		require.NoError(t, err)

		resp := server.PATCH(fmt.Sprintf("/locations/%d/", created.ID), map[string]any{"lat": "20.1234567"})

		var got locationResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		assert.Equal(t, mainCharacter.ID, got.Character)
		assert.Equal(t, "2020-01-01T00:00:00Z", got.Timestamp)
		assert.Equal(t, "20.123457", got.Lat)
		assert.Equal(t, "10.000000", got.Lon)
	})

	t.Run("partial update with invalid number", func(t *testing.T) {
		created, err := server.Locations.Create(ctx, testutils.CreateTestLocation(mainCharacter.ID, "10", "10"))
		require.NoError(t, err)

		resp := server.PATCH(fmt.Sprintf("/locations/%d/", created.ID), map[string]any{"lat": ""})
		testutils.AssertFieldErrorResponse(t, resp, "lat", "A valid number is required.")
	})

	t.Run("delete location", func(t *testing.T) {
		created, err := server.Locations.Create(ctx, testutils.CreateTestLocation(mainCharacter.ID, "10", "10"))
		require.NoError(t, err)

		resp := server.DELETE(fmt.Sprintf("/locations/%d/", created.ID))
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		_, err = server.Locations.FindByID(ctx, created.ID)
		assert.Error(t, err)
	})
}

func TestLocationNear(t *testing.T) {
	server, cleanup := setupServer(t)
	defer cleanup()

	ctx := context.Background()
	walter, err := server.Characters.Create(ctx, testutils.CreateTestCharacter())
	require.NoError(t, err)
	jesse, err := server.Characters.Create(ctx, testutils.CreateTestCharacterNamed("Jesse Pinkman", "1984-09-24", "Assistant"))
	require.NoError(t, err)

	atOrigin, err := server.Locations.Create(ctx, testutils.CreateTestLocation(walter.ID, "10", "10"))
	require.NoError(t, err)
	nearby := testutils.CreateTestLocation(walter.ID, "10.001", "10")
	nearby.Timestamp = nearby.Timestamp.AddDate(2, 0, 0)
	nearby, err = server.Locations.Create(ctx, nearby)
	require.NoError(t, err)
	jesseAtOrigin, err := server.Locations.Create(ctx, testutils.CreateTestLocation(jesse.ID, "10", "10"))
	require.NoError(t, err)
	_, err = server.Locations.Create(ctx, testutils.CreateTestLocation(walter.ID, "50", "50"))
	require.NoError(t, err)

	t.Run("missing params", func(t *testing.T) {
		paths := []string{
			"/locations/near/",
			"/locations/near/?character=1&ascending=0",
			"/locations/near/?coordinates=10,10",
			"/locations/near/?distance=100",
			"/locations/near/?coordinates=1010&distance=100",
			"/locations/near/?coordinates=10,10&distance=-5",
			"/locations/near/?coordinates=10,10&distance=far",
		}
		for _, path := range paths {
			resp := server.GET(path)
			testutils.AssertDetailResponse(t, resp, http.StatusBadRequest, query.NearMessage)
		}
	})

	t.Run("zero distance returns exact matches only", func(t *testing.T) {
		resp := server.GET("/locations/near/?coordinates=10,10&distance=0")

		var got []locationResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		require.Len(t, got, 2)
		assert.Equal(t, atOrigin.ID, got[0].ID)
		assert.Equal(t, jesseAtOrigin.ID, got[1].ID)
	})

	t.Run("orders by distance ascending by default", func(t *testing.T) {
		resp := server.GET("/locations/near/?coordinates=10,10&distance=100000")

		var got []locationResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		require.Len(t, got, 3)
		assert.Equal(t, nearby.ID, got[2].ID)
	})

	t.Run("descending order", func(t *testing.T) {
		resp := server.GET("/locations/near/?coordinates=10,10&distance=100000&ascending=0")

		var got []locationResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		require.Len(t, got, 3)
		assert.Equal(t, nearby.ID, got[0].ID)
	})

	t.Run("character filter", func(t *testing.T) {
		resp := server.GET(fmt.Sprintf("/locations/near/?coordinates=10,10&distance=100000&character=%d", jesse.ID))

		var got []locationResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		require.Len(t, got, 1)
		assert.Equal(t, jesseAtOrigin.ID, got[0].ID)
	})

	t.Run("date range filter", func(t *testing.T) {
		resp := server.GET("/locations/near/?coordinates=10,10&distance=100000&date_range=2021-01-01T00:00:00Z,2023-01-01T00:00:00Z")

		var got []locationResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		require.Len(t, got, 1)
		assert.Equal(t, nearby.ID, got[0].ID)
	})

	t.Run("bad optional filters", func(t *testing.T) {
		resp := server.GET("/locations/near/?coordinates=10,10&distance=100&character=walter")
		testutils.AssertDetailResponse(t, resp, http.StatusBadRequest, query.CharacterMessage)

		resp = server.GET("/locations/near/?coordinates=10,10&distance=100&date_range=2020-01-01")
		testutils.AssertDetailResponse(t, resp, http.StatusBadRequest, query.DateRangeMessage)
	})

	t.Run("far reference point matches nothing", func(t *testing.T) {
		resp := server.GET("/locations/near/?coordinates=-80,120&distance=1000")

		var got []locationResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		assert.Empty(t, got)
	})

}
