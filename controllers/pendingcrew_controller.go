package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fieldops/talktracker/services"
	"github.com/fieldops/talktracker/userctx"
)

// PendingCrewController handles guest approval endpoints
type PendingCrewController struct {
	services *services.Services
}

// NewPendingCrewController creates a new pending crew controller
func NewPendingCrewController(srvs *services.Services) *PendingCrewController {
	return &PendingCrewController{services: srvs}
}

// Index lists guests awaiting review.
func (c *PendingCrewController) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, c.services.PendingCrew.List())
}

// Refresh re-reads the queue from the store.
func (c *PendingCrewController) Refresh(w http.ResponseWriter, r *http.Request) {
	entries, err := c.services.PendingCrew.Refresh(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// Approve promotes a guest to the permanent roster.
func (c *PendingCrewController) Approve(w http.ResponseWriter, r *http.Request) {
	member, err := c.services.PendingCrew.Approve(r.Context(), chi.URLParam(r, "id"), userctx.GetActor(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, member)
}

// Reject discards a provisional guest entry.
func (c *PendingCrewController) Reject(w http.ResponseWriter, r *http.Request) {
	if err := c.services.PendingCrew.Reject(r.Context(), chi.URLParam(r, "id"), userctx.GetActor(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
