package repositories

import (
	"time"

	"github.com/fieldops/talktracker/models"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// toggledStatus flips a roster status and appends the matching audit entry.
func toggledStatus(status string, history []models.ChangeLog, actor string) (string, []models.ChangeLog) {
	if status == models.StatusActive {
		entry := models.NewChangeLog(models.ActionDeactivated, "Marked inactive", actor)
		return models.StatusInactive, models.AppendHistory(history, entry)
	}
	entry := models.NewChangeLog(models.ActionActivated, "Marked active", actor)
	return models.StatusActive, models.AppendHistory(history, entry)
}

// seedCrew builds the first-run roster.
func seedCrew() []models.CrewMember {
	members := make([]models.CrewMember, 0, len(models.SeedCrewNames))
	for _, name := range models.SeedCrewNames {
		members = append(members, *models.NewCrewMember(name, models.SeedActor))
	}
	return members
}

// seedLocations builds the first-run site list.
func seedLocations() []models.Location {
	locations := make([]models.Location, 0, len(models.SeedLocationNames))
	for _, name := range models.SeedLocationNames {
		locations = append(locations, *models.NewLocation(name, models.SeedActor))
	}
	return locations
}

// seedTopics builds the first-run topic catalog.
func seedTopics() []models.Topic {
	topics := make([]models.Topic, 0, len(models.SeedTopics))
	for _, seed := range models.SeedTopics {
		topics = append(topics, *models.NewTopic(seed.Name, seed.Content, seed.PDFURL, models.SeedActor))
	}
	return topics
}
