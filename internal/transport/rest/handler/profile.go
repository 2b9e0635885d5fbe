package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"oraclequiz/internal/model"
	"oraclequiz/internal/service"
)

// ProfileHandler handles the local-profile endpoints.
type ProfileHandler struct {
	profileSvc *service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileSvc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// PutIdentity handles PUT /v1/profile/identity
func (h *ProfileHandler) PutIdentity(w http.ResponseWriter, r *http.Request) {
	var identity model.Identity
	if err := json.NewDecoder(r.Body).Decode(&identity); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, token, err := h.profileSvc.RegisterIdentity(r.Context(), &identity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"userId":       userID,
		"sessionToken": token,
	})
}

// History handles GET /v1/profile/{userId}/history
func (h *ProfileHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.profileSvc.History(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*model.QuizHistoryRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Stats handles GET /v1/profile/{userId}/stats
func (h *ProfileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.profileSvc.Stats(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
