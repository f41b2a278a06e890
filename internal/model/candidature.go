package model

import (
	"time"

	"github.com/google/uuid"
)

// Candidature is a beneficiary application. Approval flips the linked user's
// beneficiary flag; both writes commit together or not at all.
type Candidature struct {
	BaseModel
	ApplicantName  string     `gorm:"type:varchar(255);not null" json:"applicant_name" validate:"required"`
	ApplicantPhone string     `gorm:"type:varchar(20)" json:"applicant_phone"`
	Household      int        `gorm:"default:0" json:"household"`
	Motivation     string     `gorm:"type:text" json:"motivation"`
	Status         Status     `gorm:"type:varchar(20);not null;index" json:"status"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	EvaluatorID    string     `gorm:"type:varchar(64)" json:"evaluator_id,omitempty"`
	EvaluatedAt    *time.Time `json:"evaluated_at,omitempty"`
	Reason         string     `gorm:"type:text" json:"reason,omitempty"`
	Version        int64      `gorm:"not null;default:0" json:"-"`
}
