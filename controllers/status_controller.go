package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/fieldops/talktracker/bus"
	"github.com/fieldops/talktracker/services"
)

// StatusController handles health, sync status, and host signals
type StatusController struct {
	services *services.Services
	signals  *bus.SignalBus
	logger   *logrus.Logger
}

// NewStatusController creates a new status controller
func NewStatusController(srvs *services.Services, signals *bus.SignalBus, logger *logrus.Logger) *StatusController {
	return &StatusController{services: srvs, signals: signals, logger: logger}
}

// Health is a liveness check.
func (c *StatusController) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "talk-tracker"})
}

// SyncStatus reports the synchronization driver's view.
func (c *StatusController) SyncStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, c.services.Sync.Status(r.Context()))
}

// TriggerSync runs a manual drain pass.
func (c *StatusController) TriggerSync(w http.ResponseWriter, r *http.Request) {
	synced, err := c.services.Sync.Drain(r.Context())
	if err != nil {
		c.logger.WithError(err).Warn("manual sync drain incomplete")
		respondJSON(w, http.StatusOK, map[string]interface{}{"synced": synced, "error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"synced": synced})
}

// Visibility lets the host shell report foreground/background transitions.
func (c *StatusController) Visibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Foreground bool `json:"foreground"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	c.signals.PublishVisibility(req.Foreground)
	respondJSON(w, http.StatusNoContent, nil)
}

// Connectivity lets the host shell report online/offline transitions
// directly, in addition to the periodic probe.
func (c *StatusController) Connectivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Online bool `json:"online"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	c.signals.PublishConnectivity(req.Online)
	respondJSON(w, http.StatusNoContent, nil)
}
