package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/CuteLittleSky/LimboAuth/internal/api/apierr"
	"github.com/CuteLittleSky/LimboAuth/internal/api/request"
	"github.com/CuteLittleSky/LimboAuth/internal/api/response"
	"github.com/CuteLittleSky/LimboAuth/internal/config"
	"github.com/CuteLittleSky/LimboAuth/internal/dependencies/clock"
	"github.com/CuteLittleSky/LimboAuth/internal/storage"
)

// RecordHandler handles credential-record admin endpoints
type RecordHandler struct {
	store    storage.RecordStore
	settings config.Settings
	clock    clock.Clock
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(store storage.RecordStore, settings config.Settings, clk clock.Clock) *RecordHandler {
	return &RecordHandler{
		store:    store,
		settings: settings,
		clock:    clk,
	}
}

// Get handles GET /api/v1/records/{name}
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(mux.Vars(r)["name"])

	record, err := h.store.FindByLowercaseName(r.Context(), name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RecordFromModel(record))
}

// SetPassword handles PUT /api/v1/records/{name}/password.
// An empty password clears the stored credential.
func (h *RecordHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(mux.Vars(r)["name"])

	var req request.SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	record, err := h.store.FindByLowercaseName(r.Context(), name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if req.Password == "" {
		if err := h.store.UpdateHashByLowercaseName(r.Context(), name, ""); err != nil {
			apierr.WriteError(w, err)
			return
		}
		response.NoContent(w)
		return
	}

	if err := record.SetPassword(req.Password, h.settings.BcryptCost, h.clock.Now()); err != nil {
		apierr.WriteError(w, err)
		return
	}
	if err := h.store.Update(r.Context(), record); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// DeleteTotp handles DELETE /api/v1/records/{name}/totp, disabling
// two-factor authentication for the record
func (h *RecordHandler) DeleteTotp(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(mux.Vars(r)["name"])

	record, err := h.store.FindByLowercaseName(r.Context(), name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	record.TotpToken = ""
	if err := h.store.Update(r.Context(), record); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}
