package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"complaint-service/internal/model"
	"complaint-service/internal/repository"
	"complaint-service/internal/utils"
)

// memStore is an in-memory stand-in for the gorm repositories. It guards every
// operation with one mutex, so the compare-and-swap semantics under concurrent
// callers match what the conditional UPDATE gives us in postgres. It signals
// with the same gorm sentinel errors the real repositories translate to.
type memStore struct {
	mu         sync.Mutex
	complaints map[uuid.UUID]*model.Complaint
	upvotes    map[uuid.UUID]map[uuid.UUID]bool
	ratings    []model.WorkerRating
	events     []model.ComplaintEvent
}

func newMemStore() *memStore {
	return &memStore{
		complaints: map[uuid.UUID]*model.Complaint{},
		upvotes:    map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (s *memStore) Create(ctx context.Context, complaint *model.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if complaint.ID == uuid.Nil {
		complaint.ID = uuid.New()
	}
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now().UTC()
	}
	complaint.UpdatedAt = complaint.CreatedAt

	clone := *complaint
	s.complaints[complaint.ID] = &clone
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.complaints[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *stored
	return &clone, nil
}

func (s *memStore) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, from, to model.ComplaintStatus, fields map[string]interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.complaints[id]
	if !ok || stored.Status != from {
		return false, nil
	}

	for column, value := range fields {
		applyColumn(stored, column, value)
	}
	stored.Status = to
	stored.UpdatedAt = time.Now().UTC()
	return true, nil
}

func applyColumn(c *model.Complaint, column string, value interface{}) {
	switch column {
	case "priority":
		c.Priority = value.(model.Priority)
	case "validated_by":
		v := value.(uuid.UUID)
		c.ValidatedBy = &v
	case "validated_at":
		t := value.(time.Time)
		c.ValidatedAt = &t
	case "assigned_to":
		v := value.(uuid.UUID)
		c.AssignedTo = &v
	case "deadline":
		t := value.(time.Time)
		c.Deadline = &t
	case "progress_photo_url":
		v := value.(string)
		c.ProgressPhotoURL = &v
	case "completion_photo_url":
		v := value.(string)
		c.CompletionPhotoURL = &v
	case "resolution_notes":
		v := value.(string)
		c.ResolutionNotes = &v
	case "worker_rating":
		v := value.(int)
		c.WorkerRating = &v
	case "worker_feedback":
		v := value.(string)
		c.WorkerFeedback = &v
	case "rated_at":
		t := value.(time.Time)
		c.RatedAt = &t
	case "resolved_at":
		t := value.(time.Time)
		c.ResolvedAt = &t
	case "escalated_to":
		v := value.(string)
		c.EscalatedTo = &v
	case "escalated_at":
		t := value.(time.Time)
		c.EscalatedAt = &t
	}
}

func (s *memStore) List(ctx context.Context, filter repository.ComplaintListFilter) ([]model.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Complaint
	for _, stored := range s.complaints {
		if filter.UserID != nil && stored.UserID != *filter.UserID {
			continue
		}
		if filter.AssignedTo != nil && (stored.AssignedTo == nil || *stored.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if filter.IsEmergency != nil && stored.IsEmergency != *filter.IsEmergency {
			continue
		}
		if filter.Category != nil && stored.Category != *filter.Category {
			continue
		}
		if filter.Priority != nil && stored.Priority != *filter.Priority {
			continue
		}
		if filter.Hostel != nil && stored.Hostel != *filter.Hostel {
			continue
		}
		if len(filter.Statuses) > 0 && !statusIn(stored.Status, filter.Statuses) {
			continue
		}
		result = append(result, *stored)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].IsEmergency != result[j].IsEmergency {
			return result[i].IsEmergency
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *memStore) FindByLocationPrefix(ctx context.Context, prefix string, statuses []model.ComplaintStatus) ([]model.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := utils.NormalizeLocation(prefix)

	var result []model.Complaint
	for _, stored := range s.complaints {
		if !strings.HasPrefix(utils.NormalizeLocation(stored.Location), normalized) {
			continue
		}
		if len(statuses) > 0 && !statusIn(stored.Status, statuses) {
			continue
		}
		result = append(result, *stored)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].IsEmergency != result[j].IsEmergency {
			return result[i].IsEmergency
		}
		if result[i].UpvoteCount != result[j].UpvoteCount {
			return result[i].UpvoteCount > result[j].UpvoteCount
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *memStore) ListAssignedPastDeadline(ctx context.Context, now time.Time) ([]model.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Complaint
	for _, stored := range s.complaints {
		if stored.Status != model.ComplaintStatusAssigned {
			continue
		}
		if stored.Deadline == nil || !stored.Deadline.Before(now) {
			continue
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (s *memStore) ListValidatedBefore(ctx context.Context, cutoff time.Time) ([]model.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Complaint
	for _, stored := range s.complaints {
		if stored.Status != model.ComplaintStatusValidated {
			continue
		}
		if stored.ValidatedAt == nil || !stored.ValidatedAt.Before(cutoff) {
			continue
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (s *memStore) Add(ctx context.Context, complaintID, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.complaints[complaintID]
	if !ok {
		return 0, gorm.ErrForeignKeyViolated
	}

	votes := s.upvotes[complaintID]
	if votes == nil {
		votes = map[uuid.UUID]bool{}
		s.upvotes[complaintID] = votes
	}
	if votes[userID] {
		return 0, gorm.ErrDuplicatedKey
	}
	votes[userID] = true
	stored.UpvoteCount = len(votes)
	return stored.UpvoteCount, nil
}

func (s *memStore) Remove(ctx context.Context, complaintID, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	votes := s.upvotes[complaintID]
	if !votes[userID] {
		return 0, gorm.ErrRecordNotFound
	}
	delete(votes, userID)

	if stored, ok := s.complaints[complaintID]; ok {
		stored.UpvoteCount = len(votes)
		return stored.UpvoteCount, nil
	}
	return len(votes), nil
}

func (s *memStore) ListUpvotedBy(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []uuid.UUID
	for complaintID, votes := range s.upvotes {
		if votes[userID] {
			ids = append(ids, complaintID)
		}
	}
	return ids, nil
}

func (s *memStore) CreateRating(ctx context.Context, rating *model.WorkerRating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}
	rating.CreatedAt = time.Now().UTC()
	s.ratings = append(s.ratings, *rating)
	return nil
}

func (s *memStore) ListByWorkerID(ctx context.Context, workerID uuid.UUID, limit int) ([]model.WorkerRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.WorkerRating
	for i := len(s.ratings) - 1; i >= 0 && len(result) < limit; i-- {
		if s.ratings[i].WorkerID == workerID {
			result = append(result, s.ratings[i])
		}
	}
	return result, nil
}

func (s *memStore) SummaryByWorker(ctx context.Context) ([]repository.WorkerRatingSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := map[uuid.UUID]*repository.WorkerRatingSummary{}
	for _, rating := range s.ratings {
		summary := totals[rating.WorkerID]
		if summary == nil {
			summary = &repository.WorkerRatingSummary{WorkerID: rating.WorkerID}
			totals[rating.WorkerID] = summary
		}
		summary.AverageRating += float64(rating.Rating)
		summary.TotalRatings++
	}

	var result []repository.WorkerRatingSummary
	for _, summary := range totals {
		summary.AverageRating /= float64(summary.TotalRatings)
		result = append(result, *summary)
	}
	return result, nil
}

func (s *memStore) CreateEvent(ctx context.Context, event *model.ComplaintEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now().UTC()
	s.events = append(s.events, *event)
	return nil
}

func (s *memStore) ListByComplaintID(ctx context.Context, complaintID uuid.UUID) ([]model.ComplaintEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.ComplaintEvent
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].ComplaintID == complaintID {
			result = append(result, s.events[i])
		}
	}
	return result, nil
}

func statusIn(status model.ComplaintStatus, statuses []model.ComplaintStatus) bool {
	for _, candidate := range statuses {
		if status == candidate {
			return true
		}
	}
	return false
}

// ratingStoreAdapter and eventStoreAdapter rename the memStore methods whose
// names collide with the complaint store's Create.
type ratingStoreAdapter struct{ *memStore }

func (a ratingStoreAdapter) Create(ctx context.Context, rating *model.WorkerRating) error {
	return a.CreateRating(ctx, rating)
}

type eventStoreAdapter struct{ *memStore }

func (a eventStoreAdapter) Create(ctx context.Context, event *model.ComplaintEvent) error {
	return a.CreateEvent(ctx, event)
}

// fakeDirectory answers WorkerExists from a fixed set.
type fakeDirectory struct {
	workers map[uuid.UUID]bool
}

func newFakeDirectory(workerIDs ...uuid.UUID) *fakeDirectory {
	workers := map[uuid.UUID]bool{}
	for _, id := range workerIDs {
		workers[id] = true
	}
	return &fakeDirectory{workers: workers}
}

func (d *fakeDirectory) WorkerExists(ctx context.Context, workerID uuid.UUID) (bool, error) {
	return d.workers[workerID], nil
}

// captureNotifier records publishes instead of talking to redis.
type captureNotifier struct {
	mu          sync.Mutex
	emergencies []uuid.UUID
	escalations []uuid.UUID
}

func (n *captureNotifier) PublishEmergency(ctx context.Context, complaint *model.Complaint) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emergencies = append(n.emergencies, complaint.ID)
	return nil
}

func (n *captureNotifier) PublishEscalation(ctx context.Context, complaint *model.Complaint) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.escalations = append(n.escalations, complaint.ID)
	return nil
}
