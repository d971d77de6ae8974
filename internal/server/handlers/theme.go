package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/factlens/factlens/internal/core/prefs"
	apperrors "github.com/factlens/factlens/internal/errors"
)

// ThemeAPI exposes the display theme preference over HTTP.
type ThemeAPI struct {
	manager *prefs.Manager
}

// NewThemeAPI creates the handler set for the /v1/theme routes.
func NewThemeAPI(manager *prefs.Manager) *ThemeAPI {
	return &ThemeAPI{manager: manager}
}

// ThemeResponse reports the stored preference and the resolved theme.
type ThemeResponse struct {
	Preference string `json:"preference"`
	Effective  string `json:"effective"`
}

type themeRequestBody struct {
	Theme string `json:"theme"`
}

// GetHandler returns the current theme preference.
func (api *ThemeAPI) GetHandler(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.manager == nil {
		respondWithError(w, r, apperrors.NewInternalError("theme preferences not initialized"))
		return
	}

	writeJSON(w, http.StatusOK, ThemeResponse{
		Preference: string(api.manager.Preference()),
		Effective:  string(api.manager.Effective()),
	})
}

// SetHandler updates the theme preference.
func (api *ThemeAPI) SetHandler(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.manager == nil {
		respondWithError(w, r, apperrors.NewInternalError("theme preferences not initialized"))
		return
	}

	var body themeRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "request body must be JSON"))
		return
	}

	theme, err := prefs.ParseTheme(body.Theme)
	if err != nil {
		respondWithError(w, r, apperrors.WrapValidationError(r.Context(), err, "invalid theme"))
		return
	}

	if err := api.manager.Set(r.Context(), theme); err != nil {
		respondWithError(w, r, apperrors.WrapInternal(r.Context(), err, "failed to persist theme preference"))
		return
	}

	writeJSON(w, http.StatusOK, ThemeResponse{
		Preference: string(api.manager.Preference()),
		Effective:  string(api.manager.Effective()),
	})
}
