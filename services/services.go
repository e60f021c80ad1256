package services

import (
	"github.com/sirupsen/logrus"

	"github.com/fieldops/talktracker/bus"
	"github.com/fieldops/talktracker/remote"
	"github.com/fieldops/talktracker/repositories"
)

// Services holds all service instances
type Services struct {
	Crew        CrewService
	Locations   LocationService
	Topics      TopicService
	Talks       TalkService
	PendingCrew PendingCrewService
	Sync        SyncService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, submitter remote.Submitter, signals *bus.SignalBus, logger *logrus.Logger) *Services {
	syncService := NewSyncService(repos.Talks, submitter, signals, logger)

	return &Services{
		Crew:        NewCrewService(repos.Crew),
		Locations:   NewLocationService(repos.Locations),
		Topics:      NewTopicService(repos.Topics),
		Talks:       NewTalkService(repos.Talks, repos.Topics, repos.Crew, repos.PendingCrew, syncService, logger),
		PendingCrew: NewPendingCrewService(repos.PendingCrew, repos.Crew, signals, logger),
		Sync:        syncService,
	}
}
