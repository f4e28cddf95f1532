package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotebookEntry is one missed question captured in a user's error notebook.
// It does not embed scheduling columns; ReviewRecordID links it to the
// review record that owns them. The link is written in a second step after
// the entry row, so it can legitimately be nil until repaired.
type NotebookEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Topic      string    `gorm:"column:topic;not null;index" json:"topic"`

	WrongAnswer   string `gorm:"column:wrong_answer" json:"wrong_answer"`
	CorrectAnswer string `gorm:"column:correct_answer" json:"correct_answer"`
	Explanation   string `gorm:"column:explanation" json:"explanation,omitempty"`
	Notes         string `gorm:"column:notes" json:"notes,omitempty"`

	ReviewRecordID *uuid.UUID `gorm:"type:uuid;index" json:"review_record_id,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (NotebookEntry) TableName() string { return "notebook_entry" }
