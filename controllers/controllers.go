package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/fieldops/talktracker/bus"
	"github.com/fieldops/talktracker/services"
)

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError maps service errors to responses: user-correctable
// rejections become 400s with the message, everything else is a 500.
func respondError(w http.ResponseWriter, err error) {
	if services.IsRejection(err) {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

// decodeBody decodes a JSON request body into dst, responding 400 on
// malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// Controllers holds all controller instances
type Controllers struct {
	Crew        *CrewController
	Locations   *LocationController
	Topics      *TopicController
	Talks       *TalkController
	PendingCrew *PendingCrewController
	Status      *StatusController
}

// NewControllers creates and initializes all controller instances
func NewControllers(srvs *services.Services, signals *bus.SignalBus, logger *logrus.Logger) *Controllers {
	return &Controllers{
		Crew:        NewCrewController(srvs),
		Locations:   NewLocationController(srvs),
		Topics:      NewTopicController(srvs),
		Talks:       NewTalkController(srvs),
		PendingCrew: NewPendingCrewController(srvs),
		Status:      NewStatusController(srvs, signals, logger),
	}
}
