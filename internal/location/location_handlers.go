package location

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"whereabouts/db"
	"whereabouts/internal/query"
	"whereabouts/internal/validation"
	web "whereabouts/internal/respond"
	"whereabouts/models"
)

type LocationHandlers struct {
	service *LocationService
	logger  zerolog.Logger
}

func NewLocationHandlers(service *LocationService, logger zerolog.Logger) *LocationHandlers {
	return &LocationHandlers{service: service, logger: logger}
}

// List handles GET /locations/.
func (h *LocationHandlers) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.List(r.Context(), models.LocationFilter{})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list locations")
		web.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	if locations == nil {
		locations = []*models.Location{}
	}
	web.WriteJSON(w, http.StatusOK, locations)
}

// Near handles GET /locations/near/. The coordinates/distance pair is
// mandatory; character, date_range and ascending narrow and order the result.
func (h *LocationHandlers) Near(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	near, err := query.ParseNear(params.Get("coordinates"), params.Get("distance"), params.Get("ascending"))
	if err != nil {
		web.WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	filter, err := query.ParseLocationFilter(params.Get("character"), params.Get("date_range"))
	if err != nil {
		web.WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	locations, err := h.service.Near(r.Context(), near, filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to run proximity search")
		web.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	if locations == nil {
		locations = []*models.Location{}
	}
	web.WriteJSON(w, http.StatusOK, locations)
}

// Get handles GET /locations/{id}/.
func (h *LocationHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	location, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			web.WriteNotFound(w)
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to get location")
		web.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	web.WriteJSON(w, http.StatusOK, location)
}

// Create handles POST /locations/.
func (h *LocationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := validation.DecodeBody(r.Body)
	if err != nil {
		web.WriteDetail(w, http.StatusBadRequest, "JSON parse error")
		return
	}

	location, fieldErrs := buildLocation(fields)
	if fieldErrs.Any() {
		web.WriteFieldErrors(w, fieldErrs)
		return
	}

	created, err := h.service.Create(r.Context(), location)
	if err != nil {
		h.writeSaveError(w, err)
		return
	}

	web.WriteJSON(w, http.StatusCreated, created)
}

// Update handles PUT /locations/{id}/ as a full replace.
func (h *LocationHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	fields, err := validation.DecodeBody(r.Body)
	if err != nil {
		web.WriteDetail(w, http.StatusBadRequest, "JSON parse error")
		return
	}

	location, fieldErrs := buildLocation(fields)
	if fieldErrs.Any() {
		web.WriteFieldErrors(w, fieldErrs)
		return
	}
	location.ID = id

	updated, err := h.service.Update(r.Context(), location)
	if err != nil {
		h.writeSaveError(w, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, updated)
}

// Patch handles PATCH /locations/{id}/. A single provided field, e.g. lat,
// changes while every other field keeps its stored value.
func (h *LocationHandlers) Patch(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	fields, err := validation.DecodeBody(r.Body)
	if err != nil {
		web.WriteDetail(w, http.StatusBadRequest, "JSON parse error")
		return
	}

	location, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			web.WriteNotFound(w)
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to get location")
		web.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	if fieldErrs := applyLocationPatch(location, fields); fieldErrs.Any() {
		web.WriteFieldErrors(w, fieldErrs)
		return
	}

	updated, err := h.service.Update(r.Context(), location)
	if err != nil {
		h.writeSaveError(w, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /locations/{id}/.
func (h *LocationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			web.WriteNotFound(w)
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to delete location")
		web.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeSaveError maps create/update failures: a missing referenced character
// is a field-level validation error, a missing record is a 404, anything
// else is internal.
func (h *LocationHandlers) writeSaveError(w http.ResponseWriter, err error) {
	var unknownCharacter *UnknownCharacterError
	switch {
	case errors.As(err, &unknownCharacter):
		fieldErrs := validation.FieldErrors{}
		fieldErrs.Add("character", validation.MsgInvalidPK(unknownCharacter.ID))
		web.WriteFieldErrors(w, fieldErrs)
	case errors.Is(err, db.ErrNotFound):
		web.WriteNotFound(w)
	default:
		h.logger.Error().Err(err).Msg("failed to save location")
		web.WriteDetail(w, http.StatusInternalServerError, "internal error")
	}
}

// buildLocation validates a full create/replace body. Coordinates are
// rounded to the stored six-decimal precision.
func buildLocation(fields map[string]json.RawMessage) (*models.Location, validation.FieldErrors) {
	fieldErrs := validation.FieldErrors{}
	location := &models.Location{}

	if raw, ok := fields["character"]; !ok {
		fieldErrs.Add("character", validation.MsgRequired)
	} else if validation.IsNull(raw) {
		fieldErrs.Add("character", validation.MsgNotNull)
	} else if id, err := validation.IntValue(raw); err != nil {
		fieldErrs.Add("character", validation.MsgValidInteger)
	} else {
		location.CharacterID = id
	}

	if raw, ok := fields["timestamp"]; !ok {
		fieldErrs.Add("timestamp", validation.MsgRequired)
	} else if validation.IsNull(raw) {
		fieldErrs.Add("timestamp", validation.MsgNotNull)
	} else if timestamp, err := parseTimestamp(raw); err != nil {
		fieldErrs.Add("timestamp", validation.MsgDatetimeFormat)
	} else {
		location.Timestamp = timestamp
	}

	location.Lat = coordinateField(fields, "lat", fieldErrs)
	location.Lon = coordinateField(fields, "lon", fieldErrs)

	return location, fieldErrs
}

// applyLocationPatch validates and applies only the fields present.
func applyLocationPatch(location *models.Location, fields map[string]json.RawMessage) validation.FieldErrors {
	fieldErrs := validation.FieldErrors{}

	if raw, ok := fields["character"]; ok {
		if validation.IsNull(raw) {
			fieldErrs.Add("character", validation.MsgNotNull)
		} else if id, err := validation.IntValue(raw); err != nil {
			fieldErrs.Add("character", validation.MsgValidInteger)
		} else {
			location.CharacterID = id
		}
	}

	if raw, ok := fields["timestamp"]; ok {
		if validation.IsNull(raw) {
			fieldErrs.Add("timestamp", validation.MsgNotNull)
		} else if timestamp, err := parseTimestamp(raw); err != nil {
			fieldErrs.Add("timestamp", validation.MsgDatetimeFormat)
		} else {
			location.Timestamp = timestamp
		}
	}

	if raw, ok := fields["lat"]; ok {
		if lat, err := parseCoordinate(raw); err != nil {
			fieldErrs.Add("lat", validation.MsgValidNumber)
		} else {
			location.Lat = lat
		}
	}

	if raw, ok := fields["lon"]; ok {
		if lon, err := parseCoordinate(raw); err != nil {
			fieldErrs.Add("lon", validation.MsgValidNumber)
		} else {
			location.Lon = lon
		}
	}

	return fieldErrs
}

func coordinateField(fields map[string]json.RawMessage, name string, fieldErrs validation.FieldErrors) models.Coordinate {
	raw, ok := fields[name]
	if !ok {
		fieldErrs.Add(name, validation.MsgRequired)
		return models.Coordinate{}
	}
	if validation.IsNull(raw) {
		fieldErrs.Add(name, validation.MsgNotNull)
		return models.Coordinate{}
	}
	coordinate, err := parseCoordinate(raw)
	if err != nil {
		fieldErrs.Add(name, validation.MsgValidNumber)
		return models.Coordinate{}
	}
	return coordinate
}

func parseCoordinate(raw json.RawMessage) (models.Coordinate, error) {
	value, err := validation.NumberValue(raw)
	if err != nil {
		return models.Coordinate{}, err
	}
	return models.NewCoordinate(value), nil
}

func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	s, err := validation.StringValue(raw)
	if err != nil {
		return time.Time{}, err
	}
	return query.ParseDateTime(s)
}

// pathID reads the numeric {id} path variable. The route pattern restricts
// it to digits, so parse errors cannot happen on matched routes.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}
