package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/envdeck/envdeck/internal/logging"
	"github.com/envdeck/envdeck/internal/store"
	"github.com/envdeck/envdeck/internal/validation"
	"github.com/envdeck/envdeck/internal/vault"
)

const (
	// maxRequestBodySize bounds group and import payloads.
	maxRequestBodySize = 1 << 20

	// sessionCookieMaxAge is how long the mirrored connection cookies
	// live.
	sessionCookieMaxAge = 7 * 24 * time.Hour
)

// APIHandler handles REST API endpoints.
type APIHandler struct {
	vault *vault.Vault
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(v *vault.Vault) *APIHandler {
	return &APIHandler{vault: v}
}

// Response helpers

type apiResponse struct {
	Data any `json:"data,omitempty"`
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Data: data})
}

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := apiError{}
	resp.Error.Code = code
	resp.Error.Message = message
	json.NewEncoder(w).Encode(resp)
}

// ListGroups handles GET /api/groups
func (h *APIHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	log := logging.Logger(r.Context())

	groups, err := h.vault.LoadGroups()
	if err != nil {
		log.Error("failed to load groups", "error", err)
		jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load environment groups")
		return
	}

	jsonResponse(w, http.StatusOK, groups)
}

// SaveGroups handles PUT /api/groups. The whole collection is replaced;
// on success the database connection values are mirrored into session
// cookies for the client.
func (h *APIHandler) SaveGroups(w http.ResponseWriter, r *http.Request) {
	log := logging.Logger(r.Context())

	var groups []*store.EnvironmentGroup
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize)).Decode(&groups); err != nil {
		jsonError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body")
		return
	}

	if err := h.vault.SaveGroups(groups); err != nil {
		if isValidationError(err) {
			jsonError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
			return
		}
		log.Error("failed to save groups", "error", err)
		jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save environment groups")
		return
	}

	h.setSessionCookies(w, r)

	// Ids and timestamps are assigned on the persisted clone, so reload
	// rather than echoing the request body back.
	saved, err := h.vault.LoadGroups()
	if err != nil {
		log.Error("failed to reload groups after save", "error", err)
		jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load environment groups")
		return
	}
	jsonResponse(w, http.StatusOK, saved)
}

// GetGroup handles GET /api/groups/{id}
func (h *APIHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.vault.GetGroup(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, vault.ErrGroupNotFound) {
			jsonError(w, http.StatusNotFound, "NOT_FOUND", "Environment group not found")
			return
		}
		logging.Logger(r.Context()).Error("failed to get group", "error", err)
		jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load environment group")
		return
	}

	jsonResponse(w, http.StatusOK, group)
}

// UpsertGroup handles PUT /api/groups/{id}
func (h *APIHandler) UpsertGroup(w http.ResponseWriter, r *http.Request) {
	log := logging.Logger(r.Context())

	var group store.EnvironmentGroup
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize)).Decode(&group); err != nil {
		jsonError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body")
		return
	}
	group.ID = chi.URLParam(r, "id")

	if err := h.vault.UpsertGroup(&group); err != nil {
		if isValidationError(err) {
			jsonError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
			return
		}
		log.Error("failed to upsert group", "error", err)
		jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save environment group")
		return
	}

	jsonResponse(w, http.StatusOK, group)
}

// DeleteGroup handles DELETE /api/groups/{id}
func (h *APIHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.vault.DeleteGroup(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, vault.ErrGroupNotFound) {
			jsonError(w, http.StatusNotFound, "NOT_FOUND", "Environment group not found")
			return
		}
		logging.Logger(r.Context()).Error("failed to delete group", "error", err)
		jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete environment group")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]bool{"deleted": true})
}

// SetVariable handles PUT /api/groups/{id}/variables/{key}
func (h *APIHandler) SetVariable(w http.ResponseWriter, r *http.Request) {
	var variable store.EnvironmentVariable
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize)).Decode(&variable); err != nil {
		jsonError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body")
		return
	}
	variable.Key = chi.URLParam(r, "key")

	if err := h.vault.SetVariable(chi.URLParam(r, "id"), variable); err != nil {
		switch {
		case errors.Is(err, vault.ErrGroupNotFound):
			jsonError(w, http.StatusNotFound, "NOT_FOUND", "Environment group not found")
		case isValidationError(err):
			jsonError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		default:
			logging.Logger(r.Context()).Error("failed to set variable", "error", err)
			jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save variable")
		}
		return
	}

	jsonResponse(w, http.StatusOK, variable)
}

// DeleteVariable handles DELETE /api/groups/{id}/variables/{key}
func (h *APIHandler) DeleteVariable(w http.ResponseWriter, r *http.Request) {
	err := h.vault.RemoveVariable(chi.URLParam(r, "id"), chi.URLParam(r, "key"))
	if err != nil {
		if errors.Is(err, vault.ErrGroupNotFound) || errors.Is(err, vault.ErrVariableNotFound) {
			jsonError(w, http.StatusNotFound, "NOT_FOUND", "Variable not found")
			return
		}
		logging.Logger(r.Context()).Error("failed to delete variable", "error", err)
		jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete variable")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ResolveKey handles GET /api/resolve/{key}
func (h *APIHandler) ResolveKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, err := h.vault.Resolve(key)
	if err != nil {
		if errors.Is(err, vault.ErrKeyNotResolved) {
			jsonError(w, http.StatusNotFound, "NOT_FOUND", "Key not found")
			return
		}
		logging.Logger(r.Context()).Error("failed to resolve key", "key", key, "error", err)
		jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve key")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

// ExportGroups handles GET /api/groups/export
func (h *APIHandler) ExportGroups(w http.ResponseWriter, r *http.Request) {
	data, err := h.vault.ExportJSON()
	if err != nil {
		logging.Logger(r.Context()).Error("failed to export groups", "error", err)
		jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to export environment groups")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="envdeck-export.json"`)
	w.Write(data)
}

// ImportGroups handles POST /api/groups/import
func (h *APIHandler) ImportGroups(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "INVALID_INPUT", "Failed to read request body")
		return
	}

	if err := h.vault.Import(payload); err != nil {
		switch {
		case errors.Is(err, vault.ErrInvalidImport):
			jsonError(w, http.StatusBadRequest, "INVALID_IMPORT", "Payload is not a group collection")
		case isValidationError(err):
			jsonError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		default:
			logging.Logger(r.Context()).Error("failed to import groups", "error", err)
			jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to import environment groups")
		}
		return
	}

	jsonResponse(w, http.StatusOK, map[string]bool{"imported": true})
}

// setSessionCookies mirrors the persisted database connection envelopes
// into HttpOnly cookies so a browser client carries them without being
// able to read the material from script.
func (h *APIHandler) setSessionCookies(w http.ResponseWriter, r *http.Request) {
	log := logging.Logger(r.Context())

	for _, name := range []string{vault.SessionDatabaseURL, vault.SessionDirectURL} {
		serialized, err := h.vault.SessionEnvelope(name)
		if err != nil {
			if !errors.Is(err, vault.ErrVariableNotFound) {
				log.Warn("failed to read session envelope", "name", name, "error", err)
			}
			continue
		}
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    base64.URLEncoding.EncodeToString([]byte(serialized)),
			Path:     "/",
			MaxAge:   int(sessionCookieMaxAge.Seconds()),
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// isValidationError reports whether err comes from input validation.
func isValidationError(err error) bool {
	return errors.Is(err, validation.ErrGroupNameEmpty) ||
		errors.Is(err, validation.ErrGroupNameTooLong) ||
		errors.Is(err, validation.ErrVariableKeyEmpty) ||
		errors.Is(err, validation.ErrVariableKeyTooLong) ||
		errors.Is(err, validation.ErrVariableKeyInvalidFormat) ||
		errors.Is(err, validation.ErrVariableKeyDuplicate) ||
		errors.Is(err, validation.ErrDescriptionTooLong)
}
