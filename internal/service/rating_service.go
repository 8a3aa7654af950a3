package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"complaint-service/internal/model"
	"complaint-service/internal/repository"
)

// RatingService records post-completion feedback. Rating is the normal-path
// trigger for completed -> resolved; it never reopens anything.
type RatingService struct {
	complaints ComplaintStore
	ratings    RatingStore
	events     EventStore
	log        zerolog.Logger
}

func NewRatingService(complaints ComplaintStore, ratings RatingStore, events EventStore, log zerolog.Logger) *RatingService {
	return &RatingService{
		complaints: complaints,
		ratings:    ratings,
		events:     events,
		log:        log,
	}
}

type RateInput struct {
	Rating   int
	Feedback string
}

// Rate accepts the filer's one-time rating of the completed work and resolves
// the complaint in the same swap. The first caller wins; a concurrent
// duplicate loses the CAS and reports ErrAlreadyRated.
func (s *RatingService) Rate(ctx context.Context, principal model.Principal, complaintID uuid.UUID, input RateInput) (*model.Complaint, error) {
	if !principal.IsResident() {
		return nil, ErrPermissionDenied
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidInput
	}

	complaint, err := s.getByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.UserID != principal.UserID {
		return nil, ErrPermissionDenied
	}
	if complaint.WorkerRating != nil {
		return nil, ErrAlreadyRated
	}
	if complaint.Status != model.ComplaintStatusCompleted || complaint.AssignedTo == nil {
		return nil, ErrInvalidState
	}

	now := time.Now().UTC()
	fields := map[string]interface{}{
		"worker_rating": input.Rating,
		"rated_at":      now,
		"resolved_at":   now,
	}
	if strings.TrimSpace(input.Feedback) != "" {
		fields["worker_feedback"] = input.Feedback
	}

	applied, err := s.complaints.CompareAndSwapStatus(ctx, complaintID, model.ComplaintStatusCompleted, model.ComplaintStatusResolved, fields)
	if err != nil {
		return nil, err
	}
	if !applied {
		fresh, err := s.getByID(ctx, complaintID)
		if err != nil {
			return nil, err
		}
		if fresh.WorkerRating != nil {
			return nil, ErrAlreadyRated
		}
		return nil, ErrInvalidState
	}

	rating := &model.WorkerRating{
		WorkerID:    *complaint.AssignedTo,
		ComplaintID: complaintID,
		RatedBy:     principal.UserID,
		Rating:      input.Rating,
		Feedback:    strings.TrimSpace(input.Feedback),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		s.log.Warn().Err(err).Str("complaint_id", complaintID.String()).Msg("failed to record worker rating row")
	}

	event := &model.ComplaintEvent{
		ComplaintID: complaintID,
		Action:      ActionRate,
		PerformedBy: &principal.UserID,
		FromStatus:  model.ComplaintStatusCompleted,
		ToStatus:    model.ComplaintStatusResolved,
	}
	if err := s.events.Create(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("complaint_id", complaintID.String()).Msg("failed to record complaint event")
	}

	return s.getByID(ctx, complaintID)
}

// WorkerPerformance is the admin view over accumulated ratings.
type WorkerPerformance struct {
	repository.WorkerRatingSummary
	RecentRatings []model.WorkerRating `json:"recent_ratings"`
}

func (s *RatingService) Performance(ctx context.Context, principal model.Principal) ([]WorkerPerformance, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	summaries, err := s.ratings.SummaryByWorker(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]WorkerPerformance, 0, len(summaries))
	for _, summary := range summaries {
		recent, err := s.ratings.ListByWorkerID(ctx, summary.WorkerID, 5)
		if err != nil {
			return nil, err
		}
		result = append(result, WorkerPerformance{
			WorkerRatingSummary: summary,
			RecentRatings:       recent,
		})
	}
	return result, nil
}

func (s *RatingService) getByID(ctx context.Context, id uuid.UUID) (*model.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return complaint, nil
}
