package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"complaint-service/internal/model"
	"complaint-service/internal/utils"
)

type ComplaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

func (r *ComplaintRepository) Create(ctx context.Context, complaint *model.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

func (r *ComplaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Complaint, error) {
	var complaint model.Complaint
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&complaint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

// CompareAndSwapStatus applies a transition as one conditional UPDATE: the row
// is touched only if its status still equals `from`. The returned bool reports
// whether the swap happened; false means another writer got there first (or
// the id does not exist) and nothing was written.
func (r *ComplaintRepository) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, from, to model.ComplaintStatus, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}

	res := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type ComplaintListFilter struct {
	Statuses    []model.ComplaintStatus
	UserID      *uuid.UUID
	AssignedTo  *uuid.UUID
	IsEmergency *bool
	Category    *model.Category
	Priority    *model.Priority
	Hostel      *string
}

func (r *ComplaintRepository) List(ctx context.Context, filter ComplaintListFilter) ([]model.Complaint, error) {
	var complaints []model.Complaint
	query := r.db.WithContext(ctx).Model(&model.Complaint{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.IsEmergency != nil {
		query = query.Where("is_emergency = ?", *filter.IsEmergency)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.Hostel != nil {
		query = query.Where("hostel = ?", *filter.Hostel)
	}

	if err := query.Order("is_emergency DESC, created_at DESC").Find(&complaints).Error; err != nil {
		return nil, err
	}

	return complaints, nil
}

// FindByLocationPrefix surfaces open reports for the same spot before a
// resident files a duplicate. Matching is case-insensitive on the normalized
// prefix; most-upvoted first, emergencies on top.
func (r *ComplaintRepository) FindByLocationPrefix(ctx context.Context, prefix string, statuses []model.ComplaintStatus) ([]model.Complaint, error) {
	normalized := utils.NormalizeLocation(prefix)
	if normalized == "" {
		return nil, nil
	}

	var complaints []model.Complaint
	err := r.db.WithContext(ctx).
		Where("LOWER(location) LIKE ?", normalized+"%").
		Where("status IN ?", statuses).
		Order("is_emergency DESC, upvote_count DESC, created_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

// ListAssignedPastDeadline feeds the escalation scheduler: assigned complaints
// whose deadline is behind `now`.
func (r *ComplaintRepository) ListAssignedPastDeadline(ctx context.Context, now time.Time) ([]model.Complaint, error) {
	var complaints []model.Complaint
	err := r.db.WithContext(ctx).
		Where("status = ?", model.ComplaintStatusAssigned).
		Where("deadline IS NOT NULL AND deadline < ?", now).
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

// ListValidatedBefore feeds the scheduler's unassigned-too-long pass:
// validated complaints whose validation happened before `cutoff`.
func (r *ComplaintRepository) ListValidatedBefore(ctx context.Context, cutoff time.Time) ([]model.Complaint, error) {
	var complaints []model.Complaint
	err := r.db.WithContext(ctx).
		Where("status = ?", model.ComplaintStatusValidated).
		Where("validated_at IS NOT NULL AND validated_at < ?", cutoff).
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}
