package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TopicAccuracy accumulates one user's answer counters for one topic. The
// due-queue builder reads the derived weakest-topic ranking; answer
// ingestion is the only writer.
type TopicAccuracy struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_topic_accuracy,unique,priority:1" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Topic     string         `gorm:"column:topic;not null;index:idx_user_topic_accuracy,unique,priority:2" json:"topic"`
	Correct   int            `gorm:"column:correct;not null;default:0" json:"correct"`
	Total     int            `gorm:"column:total;not null;default:0" json:"total"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TopicAccuracy) TableName() string { return "topic_accuracy" }

// Accuracy returns the correct ratio, or 1 when the user has no attempts so
// untouched topics never rank as weak.
func (t *TopicAccuracy) Accuracy() float64 {
	if t.Total == 0 {
		return 1
	}
	return float64(t.Correct) / float64(t.Total)
}
