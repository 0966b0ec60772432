package character

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"whereabouts/db"
	"whereabouts/internal/query"
	"whereabouts/internal/validation"
	web "whereabouts/internal/respond"
	"whereabouts/models"
)

type CharacterHandlers struct {
	service *CharacterService
	logger  zerolog.Logger
}

func NewCharacterHandlers(service *CharacterService, logger zerolog.Logger) *CharacterHandlers {
	return &CharacterHandlers{service: service, logger: logger}
}

// List handles GET /characters/. The orderBy/ascending pair is mandatory and
// checked before any filtering; the optional filters are OR-combined.
func (h *CharacterHandlers) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	ordering, err := query.ParseOrdering(params.Get("orderBy"), params.Get("ascending"))
	if err != nil {
		web.WriteDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	filter := Filter{
		Name:       params.Get("name"),
		Suspect:    params.Get("suspect"),
		Occupation: params.Get("occupation"),
	}

	characters, err := h.service.List(r.Context(), filter, ordering)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list characters")
		web.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	if characters == nil {
		characters = []*models.Character{}
	}
	web.WriteJSON(w, http.StatusOK, characters)
}

// Get handles GET /characters/{id}/.
func (h *CharacterHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	character, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			web.WriteNotFound(w)
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to get character")
		web.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	web.WriteJSON(w, http.StatusOK, character)
}

// Create handles POST /characters/.
func (h *CharacterHandlers) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := validation.DecodeBody(r.Body)
	if err != nil {
		web.WriteDetail(w, http.StatusBadRequest, "JSON parse error")
		return
	}

	character, fieldErrs := buildCharacter(fields)
	if fieldErrs.Any() {
		web.WriteFieldErrors(w, fieldErrs)
		return
	}

	created, err := h.service.Create(r.Context(), character)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create character")
		web.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	web.WriteJSON(w, http.StatusCreated, created)
}

// Update handles PUT /characters/{id}/ as a full replace.
func (h *CharacterHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	fields, err := validation.DecodeBody(r.Body)
	if err != nil {
		web.WriteDetail(w, http.StatusBadRequest, "JSON parse error")
		return
	}

	character, fieldErrs := buildCharacter(fields)
	if fieldErrs.Any() {
		web.WriteFieldErrors(w, fieldErrs)
		return
	}
	character.ID = id

	updated, err := h.service.Update(r.Context(), character)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			web.WriteNotFound(w)
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to update character")
		web.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	web.WriteJSON(w, http.StatusOK, updated)
}

// Patch handles PATCH /characters/{id}/. Only the fields present in the body
// change; everything else keeps its stored value.
func (h *CharacterHandlers) Patch(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	fields, err := validation.DecodeBody(r.Body)
	if err != nil {
		web.WriteDetail(w, http.StatusBadRequest, "JSON parse error")
		return
	}

	character, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			web.WriteNotFound(w)
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to get character")
		web.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	if fieldErrs := applyCharacterPatch(character, fields); fieldErrs.Any() {
		web.WriteFieldErrors(w, fieldErrs)
		return
	}

	updated, err := h.service.Update(r.Context(), character)
	if err != nil {
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to update character")
		web.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	web.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /characters/{id}/. Locations owned by the character
// are deleted with it.
func (h *CharacterHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			web.WriteNotFound(w)
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to delete character")
		web.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// buildCharacter validates a full create/replace body.
func buildCharacter(fields map[string]json.RawMessage) (*models.Character, validation.FieldErrors) {
	fieldErrs := validation.FieldErrors{}
	character := &models.Character{}

	if raw, ok := fields["name"]; !ok {
		fieldErrs.Add("name", validation.MsgRequired)
	} else if validation.IsNull(raw) {
		fieldErrs.Add("name", validation.MsgNotNull)
	} else if name, err := validation.StringValue(raw); err != nil || name == "" {
		fieldErrs.Add("name", validation.MsgBlank)
	} else {
		character.Name = name
	}

	if raw, ok := fields["date_of_birth"]; !ok {
		fieldErrs.Add("date_of_birth", validation.MsgRequired)
	} else if validation.IsNull(raw) {
		fieldErrs.Add("date_of_birth", validation.MsgNotNull)
	} else if err := json.Unmarshal(raw, &character.DateOfBirth); err != nil {
		fieldErrs.Add("date_of_birth", validation.MsgDateFormat)
	}

	if raw, ok := fields["occupation"]; !ok {
		fieldErrs.Add("occupation", validation.MsgRequired)
	} else if validation.IsNull(raw) {
		fieldErrs.Add("occupation", validation.MsgNotNull)
	} else if occupation, err := validation.StringValue(raw); err != nil || occupation == "" {
		fieldErrs.Add("occupation", validation.MsgBlank)
	} else {
		character.Occupation = occupation
	}

	if raw, ok := fields["is_suspect"]; ok && !validation.IsNull(raw) {
		suspect, err := validation.BoolValue(raw)
		if err != nil {
			fieldErrs.Add("is_suspect", "Must be a valid boolean.")
		} else {
			character.IsSuspect = suspect
		}
	}

	return character, fieldErrs
}

// applyCharacterPatch validates and applies only the fields present.
func applyCharacterPatch(character *models.Character, fields map[string]json.RawMessage) validation.FieldErrors {
	fieldErrs := validation.FieldErrors{}

	if raw, ok := fields["name"]; ok {
		if validation.IsNull(raw) {
			fieldErrs.Add("name", validation.MsgNotNull)
		} else if name, err := validation.StringValue(raw); err != nil || name == "" {
			fieldErrs.Add("name", validation.MsgBlank)
		} else {
			character.Name = name
		}
	}

	if raw, ok := fields["date_of_birth"]; ok {
		if validation.IsNull(raw) {
			fieldErrs.Add("date_of_birth", validation.MsgNotNull)
		} else if err := json.Unmarshal(raw, &character.DateOfBirth); err != nil {
			fieldErrs.Add("date_of_birth", validation.MsgDateFormat)
		}
	}

	if raw, ok := fields["occupation"]; ok {
		if validation.IsNull(raw) {
			fieldErrs.Add("occupation", validation.MsgNotNull)
		} else if occupation, err := validation.StringValue(raw); err != nil || occupation == "" {
			fieldErrs.Add("occupation", validation.MsgBlank)
		} else {
			character.Occupation = occupation
		}
	}

	if raw, ok := fields["is_suspect"]; ok {
		if validation.IsNull(raw) {
			fieldErrs.Add("is_suspect", validation.MsgNotNull)
		} else if suspect, err := validation.BoolValue(raw); err != nil {
			fieldErrs.Add("is_suspect", "Must be a valid boolean.")
		} else {
			character.IsSuspect = suspect
		}
	}

	return fieldErrs
}

// pathID reads the numeric {id} path variable. The route pattern restricts
// it to digits, so parse errors cannot happen on matched routes.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}
