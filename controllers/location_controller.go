package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fieldops/talktracker/services"
	"github.com/fieldops/talktracker/userctx"
)

// LocationController handles site endpoints
type LocationController struct {
	services *services.Services
}

// NewLocationController creates a new location controller
func NewLocationController(srvs *services.Services) *LocationController {
	return &LocationController{services: srvs}
}

// Index lists all locations.
func (c *LocationController) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, c.services.Locations.List())
}

// Create adds a location.
func (c *LocationController) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	location, err := c.services.Locations.Create(r.Context(), req.Name, userctx.GetActor(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	if location == nil {
		respondJSON(w, http.StatusNoContent, nil)
		return
	}
	respondJSON(w, http.StatusCreated, location)
}

// Rename changes a location's name.
func (c *LocationController) Rename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	location, err := c.services.Locations.Rename(r.Context(), chi.URLParam(r, "id"), req.Name, userctx.GetActor(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	if location == nil {
		respondJSON(w, http.StatusNoContent, nil)
		return
	}
	respondJSON(w, http.StatusOK, location)
}

// Toggle flips a location between active and inactive.
func (c *LocationController) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := c.services.Locations.ToggleStatus(r.Context(), chi.URLParam(r, "id"), userctx.GetActor(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
