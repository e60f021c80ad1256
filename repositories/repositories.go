package repositories

import (
	"github.com/sirupsen/logrus"

	"github.com/fieldops/talktracker/database"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Crew        CrewRepository
	Locations   LocationRepository
	Topics      TopicRepository
	Talks       TalkRepository
	PendingCrew PendingCrewRepository
	Audit       AuditRepository
}

// NewRepositories creates and initializes all repositories over one shared
// durable store handle.
func NewRepositories(store *database.Store, logger *logrus.Logger) *Repositories {
	return &Repositories{
		Crew:        NewCrewRepository(store, logger),
		Locations:   NewLocationRepository(store, logger),
		Topics:      NewTopicRepository(store, logger),
		Talks:       NewTalkRepository(store, logger),
		PendingCrew: NewPendingCrewRepository(store, logger),
		Audit:       NewAuditRepository(store),
	}
}
