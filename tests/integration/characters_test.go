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

func TestCharacterEndpoints(t *testing.T) {
	server, cleanup := setupServer(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("retrieve character successfully", func(t *testing.T) {
		created, err := server.Characters.Create(ctx, testutils.CreateTestCharacterNamed("John Doe", "1990-01-01", "Teacher"))
		require.NoError(t, err)

		resp := server.GET(fmt.Sprintf("/characters/%d/", created.ID))

		var got characterResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		assert.Equal(t, "John Doe", got.Name)
		assert.Equal(t, "1990-01-01", got.DateOfBirth)
		assert.Equal(t, "Teacher", got.Occupation)
		assert.False(t, got.IsSuspect)
	})

	t.Run("retrieve non-existent character", func(t *testing.T) {
		resp := server.GET("/characters/999/")
		testutils.AssertDetailResponse(t, resp, http.StatusNotFound, "Not found.")
	})

	t.Run("create character successfully", func(t *testing.T) {
		body := map[string]any{"name": "Jane Smith", "date_of_birth": "1995-05-05", "occupation": "Doctor", "is_suspect": true}
		resp := server.POST("/characters/", body)

		var got characterResponse
		testutils.AssertJSONResponse(t, resp, http.StatusCreated, &got)
		assert.NotZero(t, got.ID)
		assert.Equal(t, "Jane Smith", got.Name)
		assert.True(t, got.IsSuspect)
	})

	t.Run("create character with missing field", func(t *testing.T) {
		body := map[string]any{"name": "John Doe", "date_of_birth": "1990-01-01"}
		resp := server.POST("/characters/", body)
		testutils.AssertFieldErrorResponse(t, resp, "occupation", "This field is required.")
	})

	t.Run("update character with PUT", func(t *testing.T) {
		created, err := server.Characters.Create(ctx, testutils.CreateTestCharacterNamed("Mike E", "1944-01-01", "Fixer"))
		require.NoError(t, err)

		body := map[string]any{"name": "Mike Ehrmantraut", "date_of_birth": "1944-01-30", "occupation": "Security", "is_suspect": true}
		resp := server.PUT(fmt.Sprintf("/characters/%d/", created.ID), body)

		var got characterResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		assert.Equal(t, "Mike Ehrmantraut", got.Name)
		assert.Equal(t, "1944-01-30", got.DateOfBirth)
		assert.Equal(t, "Security", got.Occupation)
		assert.True(t, got.IsSuspect)
	})

	t.Run("partial update leaves other fields unchanged", func(t *testing.T) {
		created, err := server.Characters.Create(ctx, testutils.CreateTestCharacterNamed("Saul Goodman", "1960-11-12", "Lawyer"))
		require.NoError(t, err)

		resp := server.PATCH(fmt.Sprintf("/characters/%d/", created.ID), map[string]any{"is_suspect": true})

		var got characterResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		assert.Equal(t, "Saul Goodman", got.Name)
		assert.Equal(t, "1960-11-12", got.DateOfBirth)
		assert.Equal(t, "Lawyer", got.Occupation)
		assert.True(t, got.IsSuspect)
	})

	t.Run("delete character", func(t *testing.T) {
		created, err := server.Characters.Create(ctx, testutils.CreateTestCharacterNamed("Gale Boetticher", "1968-04-01", "Chemist"))
		require.NoError(t, err)

		resp := server.DELETE(fmt.Sprintf("/characters/%d/", created.ID))
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = server.GET(fmt.Sprintf("/characters/%d/", created.ID))
		testutils.AssertDetailResponse(t, resp, http.StatusNotFound, "Not found.")
	})
}

func TestCharacterListing(t *testing.T) {
	server, cleanup := setupServer(t)
	defer cleanup()

	ctx := context.Background()
	_, err := server.Characters.Create(ctx, testutils.CreateTestCharacterNamed("John Doe", "1990-01-01", "Teacher"))
	require.NoError(t, err)
	suspect := testutils.CreateTestCharacterNamed("Jane Smith", "1995-05-05", "Doctor")
	suspect.IsSuspect = true
	_, err = server.Characters.Create(ctx, suspect)
	require.NoError(t, err)

	t.Run("missing ordering params is unprocessable", func(t *testing.T) {
		paths := []string{
			"/characters/",
			"/characters/?name=John",
			"/characters/?orderBy=name",
			"/characters/?ascending=1",
			"/characters/?orderBy=occupation&ascending=1",
			"/characters/?orderBy=name&ascending=true",
			"/characters/?name=John&sort=true",
		}
		for _, path := range paths {
			resp := server.GET(path)
			testutils.AssertDetailResponse(t, resp, http.StatusUnprocessableEntity, query.OrderingMessage)
		}
	})

	t.Run("list ordered by name", func(t *testing.T) {
		resp := server.GET("/characters/?orderBy=name&ascending=1")

		var got []characterResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		require.Len(t, got, 2)
		assert.Equal(t, "Jane Smith", got[0].Name)
		assert.Equal(t, "John Doe", got[1].Name)
	})

	t.Run("list ordered by date descending", func(t *testing.T) {
		resp := server.GET("/characters/?orderBy=date_of_birth&ascending=0")

		var got []characterResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		require.Len(t, got, 2)
		assert.Equal(t, "Jane Smith", got[0].Name)
	})

	t.Run("filters are OR-combined", func(t *testing.T) {
		// John Doe matches only the name, Jane Smith only the suspect flag;
		// both are returned.
		resp := server.GET("/characters/?orderBy=date_of_birth&ascending=1&name=John&suspect=true")

		var got []characterResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		require.Len(t, got, 2)
		assert.Equal(t, "John Doe", got[0].Name)
		assert.Equal(t, "Jane Smith", got[1].Name)
	})

	t.Run("name filter alone", func(t *testing.T) {
		resp := server.GET("/characters/?orderBy=name&ascending=1&name=john")

		var got []characterResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		require.Len(t, got, 1)
		assert.Equal(t, "John Doe", got[0].Name)
	})

	t.Run("no match yields empty list", func(t *testing.T) {
		resp := server.GET("/characters/?orderBy=name&ascending=1&name=heisenberg")

		var got []characterResponse
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
		assert.Empty(t, got)
	})
}

func TestCharacterDeleteCascades(t *testing.T) {
	server, cleanup := setupServer(t)
	defer cleanup()

	ctx := context.Background()
	owner, err := server.Characters.Create(ctx, testutils.CreateTestCharacter())
	require.NoError(t, err)
	other, err := server.Characters.Create(ctx, testutils.CreateTestCharacterNamed("Jesse Pinkman", "1984-09-24", "Assistant"))
	require.NoError(t, err)

	_, err = server.Locations.Create(ctx, testutils.CreateTestLocation(owner.ID, "10", "10"))
	require.NoError(t, err)
	_, err = server.Locations.Create(ctx, testutils.CreateTestLocation(owner.ID, "50", "50"))
	require.NoError(t, err)
	kept, err := server.Locations.Create(ctx, testutils.CreateTestLocation(other.ID, "20", "20"))
	require.NoError(t, err)

	resp := server.DELETE(fmt.Sprintf("/characters/%d/", owner.ID))
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = server.GET("/locations/")
	var got []locationResponse
	testutils.AssertJSONResponse(t, resp, http.StatusOK, &got)
	require.Len(t, got, 1)
	assert.Equal(t, kept.ID, got[0].ID)
	assert.Equal(t, other.ID, got[0].Character)
}
