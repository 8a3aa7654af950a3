package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplaintUpvote is one (complaint, resident) pair. The unique index is what
// makes a second upvote from the same resident fail at the store.
type ComplaintUpvote struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_complaint_upvotes_pair" json:"complaint_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_complaint_upvotes_pair" json:"user_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ComplaintUpvote) TableName() string {
	return "complaint_upvotes"
}

func (u *ComplaintUpvote) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
