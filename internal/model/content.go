package model

import (
	"time"

	"github.com/google/uuid"
)

type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPending   ContentStatus = "pending"
	StatusPublished ContentStatus = "published"
	StatusArchived  ContentStatus = "archived"
)

type ReviewStatus string

const (
	ReviewNotReviewed ReviewStatus = "not_reviewed"
	ReviewApproved    ReviewStatus = "approved"
	ReviewRejected    ReviewStatus = "rejected"
)

// Content is an article moving through the review workflow. Author is set at
// creation and never changes; Updater tracks the last editing user.
type Content struct {
	BaseModel
	Title           string        `gorm:"type:varchar(255);not null;uniqueIndex:uniq_contents_live_title,where:deleted_at IS NULL" json:"title" validate:"required"`
	Body            string        `gorm:"type:text;not null" json:"body" validate:"required"`
	Category        string        `gorm:"type:varchar(100);not null" json:"category" validate:"required"`
	Cover           string        `gorm:"type:varchar(255)" json:"cover"`
	Description     string        `gorm:"type:text" json:"description"`
	Status          ContentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ReviewStatus    ReviewStatus  `gorm:"type:varchar(20);default:'not_reviewed'" json:"review_status"`
	AuthorID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"author_id"`
	Author          *User         `gorm:"foreignKey:AuthorID" json:"author,omitempty" validate:"-"`
	UpdaterID       *uuid.UUID    `gorm:"type:uuid" json:"updater_id,omitempty"`
	Updater         *User         `gorm:"foreignKey:UpdaterID" json:"updater,omitempty" validate:"-"`
	LastReviewedBy  *uuid.UUID    `gorm:"type:uuid" json:"last_reviewed_by,omitempty"`
	LastReviewedAt  *time.Time    `json:"last_reviewed_at,omitempty"`
	RejectionReason string        `gorm:"type:text" json:"rejection_reason,omitempty"`
}
