package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusValidated  ComplaintStatus = "validated"
	ComplaintStatusAssigned   ComplaintStatus = "assigned"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusCompleted  ComplaintStatus = "completed"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusEmergency  ComplaintStatus = "emergency"
	ComplaintStatusEscalated  ComplaintStatus = "escalated"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Upvote thresholds that raise a complaint's effective priority.
const (
	UpvotesForHigh   = 5
	UpvotesForMedium = 3
)

type Complaint struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Title              string          `gorm:"type:text;not null" json:"title"`
	Description        string          `gorm:"type:text;not null" json:"description"`
	Category           Category        `gorm:"type:complaint_category;not null" json:"category"`
	Location           string          `gorm:"type:text;not null;index" json:"location"`
	Hostel             string          `gorm:"type:text;not null;index" json:"hostel"`
	Status             ComplaintStatus `gorm:"type:complaint_status;not null;default:pending" json:"status"`
	Priority           Priority        `gorm:"type:complaint_priority;not null;default:medium" json:"priority"`
	IsEmergency        bool            `gorm:"not null;default:false" json:"is_emergency"`
	AssignedTo         *uuid.UUID      `gorm:"type:uuid;index" json:"assigned_to"`
	ValidatedBy        *uuid.UUID      `gorm:"type:uuid" json:"validated_by"`
	ValidatedAt        *time.Time      `json:"validated_at"`
	Deadline           *time.Time      `json:"deadline"`
	ProgressPhotoURL   *string         `gorm:"type:text" json:"progress_photo_url"`
	CompletionPhotoURL *string         `gorm:"type:text" json:"completion_photo_url"`
	ResolutionNotes    *string         `gorm:"type:text" json:"resolution_notes"`
	WorkerRating       *int            `json:"worker_rating"`
	WorkerFeedback     *string         `gorm:"type:text" json:"worker_feedback"`
	RatedAt            *time.Time      `json:"rated_at"`
	EscalatedTo        *string         `gorm:"type:varchar(20)" json:"escalated_to"`
	EscalatedAt        *time.Time      `json:"escalated_at"`
	UpvoteCount        int             `gorm:"not null;default:0" json:"upvote_count"`
	ResolvedAt         *time.Time      `json:"resolved_at"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Complaint) TableName() string {
	return "complaints"
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// EffectivePriority is the priority used for display and sorting. Upvotes only
// ever raise priority; the stored value is the floor.
func (c *Complaint) EffectivePriority() Priority {
	if c.IsEmergency || c.UpvoteCount >= UpvotesForHigh {
		return PriorityHigh
	}
	if c.UpvoteCount >= UpvotesForMedium && c.Priority == PriorityLow {
		return PriorityMedium
	}
	return c.Priority
}

// Terminal reports whether the complaint can no longer transition.
func (c *Complaint) Terminal() bool {
	return c.Status == ComplaintStatusResolved
}
