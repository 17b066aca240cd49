package model

import "github.com/google/uuid"

type ReviewAction string

const (
	ActionApproved ReviewAction = "approved"
	ActionRejected ReviewAction = "rejected"
)

// ReviewRecord is one review decision for a content item. Append-only; the
// full ordered set forms the item's review history.
type ReviewRecord struct {
	BaseModel
	ContentID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"content_id" validate:"uuid_required"`
	Content        *Content      `gorm:"foreignKey:ContentID" json:"content,omitempty" validate:"-"`
	ReviewerID     uuid.UUID     `gorm:"type:uuid;not null" json:"reviewer_id" validate:"uuid_required"`
	Reviewer       *User         `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty" validate:"-"`
	Action         ReviewAction  `gorm:"type:varchar(10);not null" json:"action" validate:"required,oneof=approved rejected"`
	Reason         string        `gorm:"type:text" json:"reason"`
	PreviousStatus ContentStatus `gorm:"type:varchar(20);not null" json:"previous_status"`
	NewStatus      ContentStatus `gorm:"type:varchar(20);not null" json:"new_status"`
}
