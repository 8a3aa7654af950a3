package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplaintEvent is one row of the append-only transition log. PerformedBy is
// nil for scheduler-driven transitions.
type ComplaintEvent struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ComplaintID uuid.UUID       `gorm:"type:uuid;not null;index" json:"complaint_id"`
	Action      string          `gorm:"type:varchar(50);not null" json:"action"`
	PerformedBy *uuid.UUID      `gorm:"type:uuid" json:"performed_by"`
	FromStatus  ComplaintStatus `gorm:"type:complaint_status;not null" json:"from_status"`
	ToStatus    ComplaintStatus `gorm:"type:complaint_status;not null" json:"to_status"`
	Notes       *string         `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (ComplaintEvent) TableName() string {
	return "complaint_events"
}

func (e *ComplaintEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
