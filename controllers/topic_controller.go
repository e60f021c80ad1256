package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fieldops/talktracker/repositories"
	"github.com/fieldops/talktracker/services"
	"github.com/fieldops/talktracker/userctx"
)

// TopicController handles briefing topic endpoints
type TopicController struct {
	services *services.Services
}

// NewTopicController creates a new topic controller
func NewTopicController(srvs *services.Services) *TopicController {
	return &TopicController{services: srvs}
}

// Index lists all topics.
func (c *TopicController) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, c.services.Topics.List())
}

// Create adds a topic.
func (c *TopicController) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Content string `json:"content"`
		PDFURL  string `json:"pdfUrl"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	topic, err := c.services.Topics.Create(r.Context(), req.Name, req.Content, req.PDFURL, userctx.GetActor(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	if topic == nil {
		respondJSON(w, http.StatusNoContent, nil)
		return
	}
	respondJSON(w, http.StatusCreated, topic)
}

// Update edits a topic's name, content, or reference document.
func (c *TopicController) Update(w http.ResponseWriter, r *http.Request) {
	var req repositories.TopicUpdate
	if !decodeBody(w, r, &req) {
		return
	}

	topic, err := c.services.Topics.Update(r.Context(), chi.URLParam(r, "id"), req, userctx.GetActor(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	if topic == nil {
		respondJSON(w, http.StatusNoContent, nil)
		return
	}
	respondJSON(w, http.StatusOK, topic)
}

// Toggle flips a topic between active and inactive.
func (c *TopicController) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := c.services.Topics.ToggleStatus(r.Context(), chi.URLParam(r, "id"), userctx.GetActor(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
