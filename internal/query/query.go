// Package query parses and validates URL query parameters into typed values.
// All functions are pure: they return a value or a *ValidationError, never
// touch the request, and never panic.
package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"whereabouts/models"
)

// Fixed messages for rejected query parameters. Clients match on these.
const (
	OrderingMessage = "The query parameters `orderBy` and `ascending` are obligatory. `orderBy` only accepts " +
		"`name` and `date_of_birth`. `ascending` only accepts 0 or 1"
	NearMessage = "The query parameters `coordinates` and `distance` are obligatory. `coordinates` accepts " +
		"a `latitude,longitude` pair. `distance` accepts any value >= 0"
	CharacterMessage = "The query parameter `character` accepts a numeric character id"
	DateRangeMessage = "The query parameter `date_range` accepts a `start,end` pair of ISO datetimes"
)

// ValidationError marks a query parameter failure that should be reported to
// the caller with its message, as opposed to an internal error.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Ordering fields accepted by the character listing.
const (
	OrderByName        = "name"
	OrderByDateOfBirth = "date_of_birth"
)

// Ordering is a validated orderBy/ascending pair.
type Ordering struct {
	Field     string
	Ascending bool
}

// ParseOrdering validates the mandatory orderBy/ascending pair of the
// character listing. Both must be present and valid.
func ParseOrdering(orderBy, ascending string) (Ordering, error) {
	if orderBy != OrderByName && orderBy != OrderByDateOfBirth {
		return Ordering{}, &ValidationError{Message: OrderingMessage}
	}
	if ascending != "0" && ascending != "1" {
		return Ordering{}, &ValidationError{Message: OrderingMessage}
	}
	return Ordering{Field: orderBy, Ascending: ascending == "1"}, nil
}

// NearParams is a validated proximity query: a reference point, a maximum
// distance in meters and the sort direction for the computed distances.
type NearParams struct {
	Lat         float64
	Lon         float64
	MaxDistance float64
	Descending  bool
}

// ParseNear validates the mandatory coordinates/distance pair of the
// proximity search. coordinates must be a "lat,lon" pair and distance a
// non-negative number. ascending is optional; only "0" flips the order.
func ParseNear(coordinates, distance, ascending string) (NearParams, error) {
	lat, lon, ok := splitPair(coordinates)
	if !ok {
		return NearParams{}, &ValidationError{Message: NearMessage}
	}

	latValue, latErr := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	lonValue, lonErr := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	maxDistance, distErr := strconv.ParseFloat(distance, 64)
	if latErr != nil || lonErr != nil || distErr != nil || maxDistance < 0 {
		return NearParams{}, &ValidationError{Message: NearMessage}
	}

	return NearParams{
		Lat:         latValue,
		Lon:         lonValue,
		MaxDistance: maxDistance,
		Descending:  ascending == "0",
	}, nil
}

// ParseLocationFilter builds the optional character/date_range filter of the
// proximity search. Empty parameters are ignored.
func ParseLocationFilter(character, dateRange string) (models.LocationFilter, error) {
	var filter models.LocationFilter

	if character != "" {
		id, err := strconv.ParseInt(character, 10, 64)
		if err != nil {
			return models.LocationFilter{}, &ValidationError{Message: CharacterMessage}
		}
		filter.CharacterID = &id
	}

	if dateRange != "" {
		start, end, ok := splitPair(dateRange)
		if !ok {
			return models.LocationFilter{}, &ValidationError{Message: DateRangeMessage}
		}
		from, fromErr := ParseDateTime(strings.TrimSpace(start))
		to, toErr := ParseDateTime(strings.TrimSpace(end))
		if fromErr != nil || toErr != nil {
			return models.LocationFilter{}, &ValidationError{Message: DateRangeMessage}
		}
		filter.From = &from
		filter.To = &to
	}

	return filter, nil
}

// datetimeLayouts are the accepted timestamp forms, from most to least
// precise. RFC3339Nano also covers RFC 3339 without fractional seconds.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDateTime parses an ISO datetime of any precision.
func ParseDateTime(s string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", s)
}

// splitPair splits "a,b" into its halves. A pair must contain exactly one
// comma with something on each side.
func splitPair(s string) (string, string, bool) {
	first, second, found := strings.Cut(s, ",")
	if !found || first == "" || second == "" || strings.Contains(second, ",") {
		return "", "", false
	}
	return first, second, true
}
