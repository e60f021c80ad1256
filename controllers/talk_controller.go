package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fieldops/talktracker/models"
	"github.com/fieldops/talktracker/services"
	"github.com/fieldops/talktracker/userctx"
)

// TalkController handles talk record endpoints
type TalkController struct {
	services *services.Services
}

// NewTalkController creates a new talk controller
func NewTalkController(srvs *services.Services) *TalkController {
	return &TalkController{services: srvs}
}

// Index lists all talk records, pending and synced, newest first. An
// optional ?date=YYYY-MM-DD query narrows the list to one day.
func (c *TalkController) Index(w http.ResponseWriter, r *http.Request) {
	records := c.services.Talks.List()

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		day, err := models.ParseDate(dateStr)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		filtered := make([]models.TalkRecord, 0, len(records))
		for _, record := range records {
			if record.DateTime.UTC().Truncate(24 * time.Hour).Equal(day) {
				filtered = append(filtered, record)
			}
		}
		records = filtered
	}

	respondJSON(w, http.StatusOK, records)
}

// Show retrieves one talk record.
func (c *TalkController) Show(w http.ResponseWriter, r *http.Request) {
	record, ok := c.services.Talks.Get(chi.URLParam(r, "id"))
	if !ok {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "talk record not found"})
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// Create submits a new talk record. The submission succeeds locally and
// immediately; sync to the remote endpoint happens later.
func (c *TalkController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.TalkForm
	if !decodeBody(w, r, &form) {
		return
	}

	record, err := c.services.Talks.Submit(r.Context(), &form)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, record)
}

// Flag opens a correction request against a submitted record.
func (c *TalkController) Flag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	record, err := c.services.Talks.FlagRecord(r.Context(), chi.URLParam(r, "id"), userctx.GetActor(r.Context()), req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// Resolve closes a flag without content changes.
func (c *TalkController) Resolve(w http.ResponseWriter, r *http.Request) {
	record, err := c.services.Talks.ResolveFlag(r.Context(), chi.URLParam(r, "id"), userctx.GetActor(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// Amend applies a correction to a flagged record.
func (c *TalkController) Amend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason         string                 `json:"reason"`
		Location       string                 `json:"location"`
		CrewSignatures []models.CrewSignature `json:"crewSignatures"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	record, err := c.services.Talks.Amend(r.Context(), chi.URLParam(r, "id"), userctx.GetActor(r.Context()), req.Reason, req.Location, req.CrewSignatures)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}
