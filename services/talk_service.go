package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fieldops/talktracker/models"
	"github.com/fieldops/talktracker/repositories"
)

// SyncRequester asks for a best-effort background drain. Its absence never
// blocks a submission; the manual triggers are the unconditional baseline.
type SyncRequester interface {
	RequestBackgroundSync()
}

// TalkService interface defines talk record submission and the record
// state machine: submitted -> flagged -> (resolve|amend) -> submitted.
type TalkService interface {
	List() []models.TalkRecord
	Get(id string) (*models.TalkRecord, bool)
	Submit(ctx context.Context, form *models.TalkForm) (*models.TalkRecord, error)
	FlagRecord(ctx context.Context, id, reviewer, reason string) (*models.TalkRecord, error)
	ResolveFlag(ctx context.Context, id, reviewer string) (*models.TalkRecord, error)
	Amend(ctx context.Context, id, foreman, reason, newLocation string, newSignatures []models.CrewSignature) (*models.TalkRecord, error)
}

// talkService implements TalkService interface
type talkService struct {
	talkRepo        repositories.TalkRepository
	topicRepo       repositories.TopicRepository
	crewRepo        repositories.CrewRepository
	pendingCrewRepo repositories.PendingCrewRepository
	sync            SyncRequester
	logger          *logrus.Logger
}

// NewTalkService creates a new talk record service
func NewTalkService(
	talkRepo repositories.TalkRepository,
	topicRepo repositories.TopicRepository,
	crewRepo repositories.CrewRepository,
	pendingCrewRepo repositories.PendingCrewRepository,
	sync SyncRequester,
	logger *logrus.Logger,
) TalkService {
	return &talkService{
		talkRepo:        talkRepo,
		topicRepo:       topicRepo,
		crewRepo:        crewRepo,
		pendingCrewRepo: pendingCrewRepo,
		sync:            sync,
		logger:          logger,
	}
}

// List retrieves all talk records, newest first.
func (s *talkService) List() []models.TalkRecord {
	return s.talkRepo.List()
}

// Get retrieves one talk record.
func (s *talkService) Get(id string) (*models.TalkRecord, bool) {
	return s.talkRepo.Get(id)
}

// Submit records a talk. The write always succeeds locally and instantly;
// guests are staged for approval and a background sync is requested, both
// without blocking the submission path.
func (s *talkService) Submit(ctx context.Context, form *models.TalkForm) (*models.TalkRecord, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, Reject("validation failed: %s", strings.Join(errs, ", "))
	}

	topic, ok := s.topicRepo.GetByID(strings.TrimSpace(form.TopicID))
	if !ok {
		return nil, Reject("unknown topic %q", form.TopicID)
	}

	// A guest whose name is already on the roster should have been signed
	// in as that member instead.
	for _, sig := range form.CrewSignatures {
		if !sig.IsGuest {
			continue
		}
		if existing, ok := s.crewRepo.FindByName(sig.Name); ok {
			return nil, Reject("%q is already on the crew roster; sign them in as %s instead of adding a guest", sig.Name, existing.Name)
		}
	}

	record := models.NewTalkRecord(form, topic)
	if err := s.talkRepo.Enqueue(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to submit talk record: %w", err)
	}

	s.stageGuests(ctx, record)

	if s.sync != nil {
		s.sync.RequestBackgroundSync()
	}

	return record, nil
}

// stageGuests places each guest signature into the provisional queue,
// deduplicated by normalized name. First seen wins; the talk record itself
// keeps its guest signatures regardless.
func (s *talkService) stageGuests(ctx context.Context, record *models.TalkRecord) {
	for _, sig := range record.CrewSignatures {
		if !sig.IsGuest {
			continue
		}
		entry := models.NewPendingCrewMember(sig.Name, record.ID, record.ForemanName)
		added, err := s.pendingCrewRepo.PutIfAbsent(ctx, entry)
		if err != nil {
			// Staging failure must not undo the submission.
			s.logger.WithError(err).WithField("guest", sig.Name).Warn("failed to stage guest for approval")
			continue
		}
		if added {
			s.logger.WithFields(logrus.Fields{"guest": entry.Name, "talk": record.ID}).Info("guest staged for approval")
		}
	}
}

// FlagRecord transitions submitted -> flagged. A non-empty reason is
// required; the record's content is untouched.
func (s *talkService) FlagRecord(ctx context.Context, id, reviewer, reason string) (*models.TalkRecord, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, Reject("a reason is required to flag a record")
	}

	record, ok := s.talkRepo.Get(id)
	if !ok {
		return nil, Reject("talk record not found")
	}
	if record.Flagged() {
		return nil, Reject("record is already flagged")
	}

	flag := &models.Flag{FlaggedBy: reviewer, FlaggedAt: time.Now().UTC(), Reason: reason}
	entry := models.NewChangeLog(models.ActionFlagged, "Flagged for correction: "+reason, reviewer)

	return s.talkRepo.UpdateWithAudit(ctx, id, func(r *models.TalkRecord) {
		r.RecordStatus = models.RecordFlagged
		r.Flag = flag
	}, []models.ChangeLog{entry})
}

// ResolveFlag transitions flagged -> submitted without content changes,
// for issues handled out-of-band.
func (s *talkService) ResolveFlag(ctx context.Context, id, reviewer string) (*models.TalkRecord, error) {
	record, ok := s.talkRepo.Get(id)
	if !ok {
		return nil, Reject("talk record not found")
	}
	if !record.Flagged() {
		return nil, Reject("record is not flagged")
	}

	entry := models.NewChangeLog(models.ActionFlagResolved, "Flag resolved without changes", reviewer)

	return s.talkRepo.UpdateWithAudit(ctx, id, func(r *models.TalkRecord) {
		r.RecordStatus = models.RecordSubmitted
		r.Flag = nil
	}, []models.ChangeLog{entry})
}

// Amend transitions flagged -> submitted by applying corrected location
// and signatures. The amendment is rejected outright when the edit changes
// nothing, even with a reason given, so the audit trail never records
// empty amendments.
func (s *talkService) Amend(ctx context.Context, id, foreman, reason, newLocation string, newSignatures []models.CrewSignature) (*models.TalkRecord, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, Reject("a reason is required to amend a record")
	}

	record, ok := s.talkRepo.Get(id)
	if !ok {
		return nil, Reject("talk record not found")
	}
	if !record.Flagged() {
		return nil, Reject("only flagged records can be amended")
	}

	newLocation = strings.TrimSpace(newLocation)
	changes := amendmentChanges(record, newLocation, newSignatures)
	if len(changes) == 0 {
		return nil, Reject("no changes detected; nothing to amend")
	}

	details := fmt.Sprintf("Amended: %s. Changes: %s", reason, strings.Join(changes, "; "))
	entry := models.NewChangeLog(models.ActionAmended, details, foreman)

	return s.talkRepo.UpdateWithAudit(ctx, id, func(r *models.TalkRecord) {
		r.Location = newLocation
		r.CrewSignatures = newSignatures
		r.RecordStatus = models.RecordSubmitted
		r.Flag = nil
	}, []models.ChangeLog{entry})
}

// amendmentChanges diffs the edited location and signatures against the
// record, returning one human-readable line per detected change category.
// Attendees are matched by normalized name; a same-named attendee present
// before and after is treated as the same person.
func amendmentChanges(record *models.TalkRecord, newLocation string, newSignatures []models.CrewSignature) []string {
	var changes []string

	if newLocation != record.Location {
		changes = append(changes, fmt.Sprintf("location changed from %q to %q", record.Location, newLocation))
	}

	oldByName := make(map[string]models.CrewSignature, len(record.CrewSignatures))
	for _, sig := range record.CrewSignatures {
		oldByName[models.NormalizeName(sig.Name)] = sig
	}
	newByName := make(map[string]models.CrewSignature, len(newSignatures))
	for _, sig := range newSignatures {
		newByName[models.NormalizeName(sig.Name)] = sig
	}

	var added, removed, updated []string
	for _, sig := range newSignatures {
		key := models.NormalizeName(sig.Name)
		old, present := oldByName[key]
		if !present {
			added = append(added, sig.Name)
			continue
		}
		if !signaturesEqual(old.Signature, sig.Signature) {
			updated = append(updated, sig.Name)
		}
	}
	for _, sig := range record.CrewSignatures {
		if _, present := newByName[models.NormalizeName(sig.Name)]; !present {
			removed = append(removed, sig.Name)
		}
	}

	if len(added) > 0 {
		changes = append(changes, "attendees added: "+strings.Join(added, ", "))
	}
	if len(removed) > 0 {
		changes = append(changes, "attendees removed: "+strings.Join(removed, ", "))
	}
	if len(updated) > 0 {
		changes = append(changes, "signatures updated: "+strings.Join(updated, ", "))
	}

	return changes
}

func signaturesEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
