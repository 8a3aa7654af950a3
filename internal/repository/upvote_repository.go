package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"complaint-service/internal/model"
)

type UpvoteRepository struct {
	db *gorm.DB
}

func NewUpvoteRepository(db *gorm.DB) *UpvoteRepository {
	return &UpvoteRepository{db: db}
}

// Add inserts the (complaint, resident) pair and recounts upvote_count in the
// same transaction, so the counter never diverges from the set. A duplicate
// pair surfaces as gorm.ErrDuplicatedKey from the unique index.
func (r *UpvoteRepository) Add(ctx context.Context, complaintID, userID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upvote := &model.ComplaintUpvote{
			ComplaintID: complaintID,
			UserID:      userID,
		}
		if err := tx.Create(upvote).Error; err != nil {
			return err
		}
		return recount(tx, complaintID, &count)
	})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Remove deletes the pair and recounts. gorm.ErrRecordNotFound when the
// resident had not upvoted.
func (r *UpvoteRepository) Remove(ctx context.Context, complaintID, userID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("complaint_id = ? AND user_id = ?", complaintID, userID).
			Delete(&model.ComplaintUpvote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return recount(tx, complaintID, &count)
	})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func recount(tx *gorm.DB, complaintID uuid.UUID, count *int64) error {
	if err := tx.Model(&model.ComplaintUpvote{}).
		Where("complaint_id = ?", complaintID).
		Count(count).Error; err != nil {
		return err
	}
	return tx.Model(&model.Complaint{}).
		Where("id = ?", complaintID).
		Update("upvote_count", *count).Error
}

// ListUpvotedBy returns the complaint ids the resident has voted on, used to
// flag "you already reported this" in the by-location listing.
func (r *UpvoteRepository) ListUpvotedBy(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.ComplaintUpvote{}).
		Where("user_id = ?", userID).
		Pluck("complaint_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
