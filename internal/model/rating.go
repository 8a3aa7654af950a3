package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkerRating is the per-worker history row behind the performance view. The
// authoritative once-only copy lives on the complaint itself.
type WorkerRating struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	WorkerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"worker_id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;not null;index" json:"complaint_id"`
	RatedBy     uuid.UUID `gorm:"type:uuid;not null" json:"rated_by"`
	Rating      int       `gorm:"not null" json:"rating"`
	Feedback    string    `gorm:"type:text" json:"feedback"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (WorkerRating) TableName() string {
	return "worker_ratings"
}

func (r *WorkerRating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
