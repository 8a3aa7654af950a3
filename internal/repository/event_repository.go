package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"complaint-service/internal/model"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *model.ComplaintEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *EventRepository) ListByComplaintID(ctx context.Context, complaintID uuid.UUID) ([]model.ComplaintEvent, error) {
	var events []model.ComplaintEvent
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}
