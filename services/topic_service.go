package services

import (
	"context"

	"github.com/fieldops/talktracker/models"
	"github.com/fieldops/talktracker/repositories"
)

// TopicService interface defines briefing topic business logic
type TopicService interface {
	List() []models.Topic
	GetByID(id string) (*models.Topic, bool)
	Create(ctx context.Context, name, content, pdfURL, actor string) (*models.Topic, error)
	Update(ctx context.Context, id string, update repositories.TopicUpdate, actor string) (*models.Topic, error)
	ToggleStatus(ctx context.Context, id, actor string) error
}

type topicService struct {
	topicRepo repositories.TopicRepository
}

// NewTopicService creates a new topic service
func NewTopicService(topicRepo repositories.TopicRepository) TopicService {
	return &topicService{topicRepo: topicRepo}
}

// List retrieves all topics.
func (s *topicService) List() []models.Topic {
	return s.topicRepo.List()
}

// GetByID retrieves one topic.
func (s *topicService) GetByID(id string) (*models.Topic, bool) {
	return s.topicRepo.GetByID(id)
}

// Create adds a topic. A blank name is a silent no-op.
func (s *topicService) Create(ctx context.Context, name, content, pdfURL, actor string) (*models.Topic, error) {
	return s.topicRepo.Create(ctx, name, content, pdfURL, actor)
}

// Update edits a topic. Existing talk records keep the name and PDF URL
// they snapshotted at submission time.
func (s *topicService) Update(ctx context.Context, id string, update repositories.TopicUpdate, actor string) (*models.Topic, error) {
	return s.topicRepo.Update(ctx, id, update, actor)
}

// ToggleStatus flips a topic between active and inactive.
func (s *topicService) ToggleStatus(ctx context.Context, id, actor string) error {
	return s.topicRepo.ToggleStatus(ctx, id, actor)
}
