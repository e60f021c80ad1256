package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fieldops/talktracker/database"
	"github.com/fieldops/talktracker/models"
)

// TopicUpdate carries the editable topic fields for an update call.
type TopicUpdate struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	PDFURL  string `json:"pdfUrl"`
}

// TopicRepository owns the topics collection and its in-memory copy.
type TopicRepository interface {
	Load(ctx context.Context) ([]models.Topic, error)
	List() []models.Topic
	GetByID(id string) (*models.Topic, bool)
	Create(ctx context.Context, name, content, pdfURL, actor string) (*models.Topic, error)
	Update(ctx context.Context, id string, update TopicUpdate, actor string) (*models.Topic, error)
	ToggleStatus(ctx context.Context, id, actor string) error
	Persistent() bool
}

type topicRepository struct {
	store  *database.Store
	logger *logrus.Logger

	mu         sync.RWMutex
	topics     []models.Topic
	loaded     bool
	persistent bool
}

// NewTopicRepository creates a new topic repository
func NewTopicRepository(store *database.Store, logger *logrus.Logger) TopicRepository {
	return &topicRepository{store: store, logger: logger, persistent: true}
}

// Load reads all topics, seeding the collection on first run.
func (r *topicRepository) Load(ctx context.Context) ([]models.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return copyTopics(r.topics), nil
	}

	docs, err := r.store.GetAll(ctx, database.CollectionTopics)
	if err != nil {
		if database.IsUnavailable(err) {
			r.degrade(err)
			r.topics = seedTopics()
			r.loaded = true
			return copyTopics(r.topics), nil
		}
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}

	topics, err := database.DecodeAll[models.Topic](docs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode topics: %w", err)
	}

	if len(topics) == 0 {
		topics = seedTopics()
		for i := range topics {
			if err := r.store.Put(ctx, database.CollectionTopics, topics[i].ID, &topics[i]); err != nil {
				if database.IsUnavailable(err) {
					r.degrade(err)
					break
				}
				return nil, fmt.Errorf("failed to persist seed topic: %w", err)
			}
		}
	}

	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	r.topics = topics
	r.loaded = true
	return copyTopics(r.topics), nil
}

// List returns the in-memory topic copy.
func (r *topicRepository) List() []models.Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyTopics(r.topics)
}

// GetByID retrieves a topic from the cache by id.
func (r *topicRepository) GetByID(id string) (*models.Topic, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.topics {
		if r.topics[i].ID == id {
			topic := r.topics[i]
			return &topic, true
		}
	}
	return nil, false
}

// Create adds a new active topic. A blank name is a silent no-op.
func (r *topicRepository) Create(ctx context.Context, name, content, pdfURL, actor string) (*models.Topic, error) {
	topic := models.NewTopic(name, content, pdfURL, actor)
	if topic == nil {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.save(ctx, *topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// Update applies changed fields only. Each logical change type appends its
// own history entry; an update that changes nothing writes nothing.
func (r *topicRepository) Update(ctx context.Context, id string, update TopicUpdate, actor string) (*models.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, nil
	}
	topic := r.topics[idx]

	changed := false
	if name := strings.TrimSpace(update.Name); name != "" && name != topic.Name {
		details := fmt.Sprintf("Name changed from %q to %q", topic.Name, name)
		topic.Name = name
		topic.History = models.AppendHistory(topic.History, models.NewChangeLog(models.ActionUpdatedName, details, actor))
		changed = true
	}
	if update.Content != topic.Content {
		topic.Content = update.Content
		topic.History = models.AppendHistory(topic.History, models.NewChangeLog(models.ActionUpdatedContent, "Briefing content updated", actor))
		changed = true
	}
	if update.PDFURL != topic.PDFURL {
		topic.PDFURL = update.PDFURL
		topic.History = models.AppendHistory(topic.History, models.NewChangeLog(models.ActionUpdatedPDF, "Reference document updated", actor))
		changed = true
	}

	if !changed {
		return &topic, nil
	}

	topic.LastModified = nowUTC()
	if err := r.save(ctx, topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

// ToggleStatus flips active/inactive. An unknown id is a silent no-op.
// Past talk records keep their snapshotted topic name and PDF URL.
func (r *topicRepository) ToggleStatus(ctx context.Context, id, actor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}
	topic := r.topics[idx]
	topic.Status, topic.History = toggledStatus(topic.Status, topic.History, actor)
	topic.LastModified = nowUTC()

	return r.save(ctx, topic)
}

// Persistent reports whether writes are reaching the durable store.
func (r *topicRepository) Persistent() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.persistent
}

// save is the write-then-update-cache funnel for topics.
func (r *topicRepository) save(ctx context.Context, topic models.Topic) error {
	if r.persistent {
		if err := r.store.Put(ctx, database.CollectionTopics, topic.ID, &topic); err != nil {
			if !database.IsUnavailable(err) {
				return fmt.Errorf("failed to save topic: %w", err)
			}
			r.degrade(err)
		}
	}

	if idx := r.indexOf(topic.ID); idx >= 0 {
		r.topics[idx] = topic
	} else {
		r.topics = append(r.topics, topic)
	}
	return nil
}

func (r *topicRepository) indexOf(id string) int {
	for i := range r.topics {
		if r.topics[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *topicRepository) degrade(err error) {
	if r.persistent {
		r.logger.WithError(err).WithField("collection", "topics").
			Warn("storage unavailable, continuing in-memory for this session")
	}
	r.persistent = false
}

func copyTopics(topics []models.Topic) []models.Topic {
	out := make([]models.Topic, len(topics))
	copy(out, topics)
	return out
}
