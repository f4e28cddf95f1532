package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question is a bank question tagged with a topic. The scheduler only reads
// the topic tag when resolving weak-topic prioritization.
type Question struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Topic         string         `gorm:"column:topic;not null;index" json:"topic"`
	Prompt        string         `gorm:"column:prompt;not null" json:"prompt"`
	Choices       datatypes.JSON `gorm:"type:jsonb;column:choices" json:"choices,omitempty"`
	CorrectChoice int            `gorm:"column:correct_choice;not null;default:0" json:"correct_choice"`
	Explanation   string         `gorm:"column:explanation" json:"explanation,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string { return "question" }
