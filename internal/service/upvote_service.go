package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"complaint-service/internal/model"
)

// UpvoteService merges duplicate reports of the same physical issue: instead
// of filing again, residents attach their vote to the existing complaint, and
// the vote count feeds the effective priority.
type UpvoteService struct {
	complaints ComplaintStore
	upvotes    UpvoteStore
}

func NewUpvoteService(complaints ComplaintStore, upvotes UpvoteStore) *UpvoteService {
	return &UpvoteService{
		complaints: complaints,
		upvotes:    upvotes,
	}
}

// Upvote adds the caller's vote. The pair insert and the count update are one
// atomic unit in the store, so two residents voting concurrently both land.
func (s *UpvoteService) Upvote(ctx context.Context, principal model.Principal, complaintID uuid.UUID) (int, error) {
	if !principal.IsResident() {
		return 0, ErrPermissionDenied
	}

	count, err := s.upvotes.Add(ctx, complaintID, principal.UserID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return 0, ErrAlreadyUpvoted
		case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrRecordNotFound):
			return 0, ErrNotFound
		default:
			return 0, err
		}
	}
	return count, nil
}

// RemoveUpvote withdraws the caller's vote.
func (s *UpvoteService) RemoveUpvote(ctx context.Context, principal model.Principal, complaintID uuid.UUID) (int, error) {
	if !principal.IsResident() {
		return 0, ErrPermissionDenied
	}

	count, err := s.upvotes.Remove(ctx, complaintID, principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotUpvoted
		}
		return 0, err
	}
	return count, nil
}

// ComplaintWithVote decorates a complaint for the duplicate check: whether
// the caller already upvoted it and whether they filed it themselves. Own
// complaints are flagged, not hidden, and nothing stops a resident voting on
// their own report.
type ComplaintWithVote struct {
	model.Complaint
	EffectivePriority model.Priority `json:"effective_priority"`
	UserUpvoted       bool           `json:"user_upvoted"`
	Mine              bool           `json:"mine"`
}

// FindByLocation surfaces open complaints whose location starts with the
// given prefix, so a resident can join an existing report instead of filing a
// duplicate. Emergencies sort first, then by votes.
func (s *UpvoteService) FindByLocation(ctx context.Context, principal model.Principal, prefix string) ([]ComplaintWithVote, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, ErrInvalidInput
	}

	complaints, err := s.complaints.FindByLocationPrefix(ctx, prefix, openStatuses)
	if err != nil {
		return nil, err
	}

	voted := map[uuid.UUID]bool{}
	if principal.IsResident() {
		ids, err := s.upvotes.ListUpvotedBy(ctx, principal.UserID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			voted[id] = true
		}
	}

	result := make([]ComplaintWithVote, 0, len(complaints))
	for _, c := range complaints {
		result = append(result, ComplaintWithVote{
			Complaint:         c,
			EffectivePriority: c.EffectivePriority(),
			UserUpvoted:       voted[c.ID],
			Mine:              c.UserID == principal.UserID,
		})
	}
	return result, nil
}
