package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"complaint-service/internal/model"
	"complaint-service/internal/repository"
)

// Store interfaces consumed by the services. The gorm repositories satisfy
// them in production; tests run against in-memory fakes. Implementations
// signal missing rows and duplicate keys with the gorm sentinel errors.

type ComplaintStore interface {
	Create(ctx context.Context, complaint *model.Complaint) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Complaint, error)
	CompareAndSwapStatus(ctx context.Context, id uuid.UUID, from, to model.ComplaintStatus, fields map[string]interface{}) (bool, error)
	List(ctx context.Context, filter repository.ComplaintListFilter) ([]model.Complaint, error)
	FindByLocationPrefix(ctx context.Context, prefix string, statuses []model.ComplaintStatus) ([]model.Complaint, error)
	ListAssignedPastDeadline(ctx context.Context, now time.Time) ([]model.Complaint, error)
	ListValidatedBefore(ctx context.Context, cutoff time.Time) ([]model.Complaint, error)
}

type UpvoteStore interface {
	Add(ctx context.Context, complaintID, userID uuid.UUID) (int, error)
	Remove(ctx context.Context, complaintID, userID uuid.UUID) (int, error)
	ListUpvotedBy(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type RatingStore interface {
	Create(ctx context.Context, rating *model.WorkerRating) error
	ListByWorkerID(ctx context.Context, workerID uuid.UUID, limit int) ([]model.WorkerRating, error)
	SummaryByWorker(ctx context.Context) ([]repository.WorkerRatingSummary, error)
}

type EventStore interface {
	Create(ctx context.Context, event *model.ComplaintEvent) error
	ListByComplaintID(ctx context.Context, complaintID uuid.UUID) ([]model.ComplaintEvent, error)
}

// WorkerDirectory resolves whether an id belongs to a known worker. Backed by
// the identity service over HTTP in production.
type WorkerDirectory interface {
	WorkerExists(ctx context.Context, workerID uuid.UUID) (bool, error)
}
