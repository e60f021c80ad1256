package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fieldops/talktracker/repositories"
	"github.com/fieldops/talktracker/services"
	"github.com/fieldops/talktracker/userctx"
)

// CrewController handles roster endpoints
type CrewController struct {
	services *services.Services
}

// NewCrewController creates a new crew controller
func NewCrewController(srvs *services.Services) *CrewController {
	return &CrewController{services: srvs}
}

// Index lists the roster.
func (c *CrewController) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, c.services.Crew.List())
}

// Create adds a roster member.
func (c *CrewController) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	member, err := c.services.Crew.Create(r.Context(), req.Name, userctx.GetActor(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	if member == nil {
		// Blank name: nothing created, nothing to report.
		respondJSON(w, http.StatusNoContent, nil)
		return
	}
	respondJSON(w, http.StatusCreated, member)
}

// Rename changes a member's name.
func (c *CrewController) Rename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	member, err := c.services.Crew.Rename(r.Context(), chi.URLParam(r, "id"), req.Name, userctx.GetActor(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	if member == nil {
		respondJSON(w, http.StatusNoContent, nil)
		return
	}
	respondJSON(w, http.StatusOK, member)
}

// Toggle flips a member between active and inactive.
func (c *CrewController) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := c.services.Crew.ToggleStatus(r.Context(), chi.URLParam(r, "id"), userctx.GetActor(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// BulkUpsert imports a roster list.
func (c *CrewController) BulkUpsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Members []repositories.BulkCrewItem `json:"members"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := c.services.Crew.BulkUpsert(r.Context(), req.Members, userctx.GetActor(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
