package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"complaint-service/internal/model"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Create(ctx context.Context, rating *model.WorkerRating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *RatingRepository) ListByWorkerID(ctx context.Context, workerID uuid.UUID, limit int) ([]model.WorkerRating, error) {
	var ratings []model.WorkerRating
	query := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&ratings).Error
	return ratings, err
}

type WorkerRatingSummary struct {
	WorkerID      uuid.UUID `json:"worker_id"`
	AverageRating float64   `json:"average_rating"`
	TotalRatings  int64     `json:"total_ratings"`
}

// SummaryByWorker aggregates average and count per worker for the
// performance view.
func (r *RatingRepository) SummaryByWorker(ctx context.Context) ([]WorkerRatingSummary, error) {
	var summaries []WorkerRatingSummary
	err := r.db.WithContext(ctx).Model(&model.WorkerRating{}).
		Select("worker_id, AVG(rating) AS average_rating, COUNT(*) AS total_ratings").
		Group("worker_id").
		Order("average_rating DESC").
		Scan(&summaries).Error
	return summaries, err
}
