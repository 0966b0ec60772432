package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"whereabouts/internal/character"
	"whereabouts/internal/location"
	"whereabouts/internal/respond"
)

// SetupRoutes wires the two resource collections. Single-record routes take
// numeric ids; /locations/near/ is registered before the id routes so the
// literal segment wins.
func SetupRoutes(characters *character.CharacterHandlers, locations *location.LocationHandlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/characters/", characters.List).Methods("GET")
	r.HandleFunc("/characters/", characters.Create).Methods("POST")
	r.HandleFunc("/characters/{id:[0-9]+}/", characters.Get).Methods("GET")
	r.HandleFunc("/characters/{id:[0-9]+}/", characters.Update).Methods("PUT")
	r.HandleFunc("/characters/{id:[0-9]+}/", characters.Patch).Methods("PATCH")
	r.HandleFunc("/characters/{id:[0-9]+}/", characters.Delete).Methods("DELETE")

	r.HandleFunc("/locations/near/", locations.Near).Methods("GET")
	r.HandleFunc("/locations/", locations.List).Methods("GET")
	r.HandleFunc("/locations/", locations.Create).Methods("POST")
	r.HandleFunc("/locations/{id:[0-9]+}/", locations.Get).Methods("GET")
	r.HandleFunc("/locations/{id:[0-9]+}/", locations.Update).Methods("PUT")
	r.HandleFunc("/locations/{id:[0-9]+}/", locations.Patch).Methods("PATCH")
	r.HandleFunc("/locations/{id:[0-9]+}/", locations.Delete).Methods("DELETE")

	// Unknown paths and unmatched ids get the same JSON 404 as missing records
	r.NotFoundHandler = http.HandlerFunc(NotFound)

	return r
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	respond.WriteNotFound(w)
}
