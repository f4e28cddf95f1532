package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mentorly/mentorly-backend/internal/srs"
)

// Flashcard is user-authored study content that embeds its own scheduling
// columns rather than linking to a review record.
type Flashcard struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	DeckID *uuid.UUID `gorm:"type:uuid;index" json:"deck_id,omitempty"`

	Front         string         `gorm:"column:front;not null" json:"front"`
	Back          string         `gorm:"column:back;not null" json:"back"`
	Media         datatypes.JSON `gorm:"type:jsonb;column:media" json:"media,omitempty"`
	Tags          datatypes.JSON `gorm:"type:jsonb;column:tags" json:"tags,omitempty"`
	PersonalNotes string         `gorm:"column:personal_notes" json:"personal_notes,omitempty"`
	Archived      bool           `gorm:"column:archived;not null;default:false;index" json:"archived"`

	EaseFactor     float64    `gorm:"column:ease_factor;not null;default:2.5" json:"ease_factor"`
	IntervalDays   int        `gorm:"column:interval_days;not null;default:1" json:"interval_days"`
	Repetitions    int        `gorm:"column:repetitions;not null;default:0" json:"repetitions"`
	Lapses         int        `gorm:"column:lapses;not null;default:0" json:"lapses"`
	Status         string     `gorm:"column:status;not null;default:'learning';index" json:"status"`
	LastReviewedAt *time.Time `gorm:"column:last_reviewed_at" json:"last_reviewed_at,omitempty"`
	NextReviewAt   time.Time  `gorm:"column:next_review_at;not null;index" json:"next_review_at"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Flashcard) TableName() string { return "flashcard" }

func (f *Flashcard) SRSState() srs.State {
	return srs.State{
		EaseFactor:     f.EaseFactor,
		IntervalDays:   f.IntervalDays,
		Repetitions:    f.Repetitions,
		Lapses:         f.Lapses,
		Status:         srs.Status(f.Status),
		LastReviewedAt: f.LastReviewedAt,
		NextReviewAt:   f.NextReviewAt,
	}
}

func (f *Flashcard) ApplySRSState(st srs.State) {
	f.EaseFactor = st.EaseFactor
	f.IntervalDays = st.IntervalDays
	f.Repetitions = st.Repetitions
	f.Lapses = st.Lapses
	f.Status = string(st.Status)
	f.LastReviewedAt = st.LastReviewedAt
	f.NextReviewAt = st.NextReviewAt
}

// FlashcardReviewLog is the immutable audit row appended on every graded
// interaction. It is written once and only ever read for history display,
// never for scheduling.
type FlashcardReviewLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FlashcardID uuid.UUID      `gorm:"type:uuid;not null;index" json:"flashcard_id"`
	Flashcard   *Flashcard     `gorm:"constraint:OnDelete:CASCADE;foreignKey:FlashcardID;references:ID" json:"flashcard,omitempty"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Quality     int            `gorm:"column:quality;not null" json:"quality"`
	Previous    datatypes.JSON `gorm:"type:jsonb;column:previous" json:"previous"`
	Next        datatypes.JSON `gorm:"type:jsonb;column:next" json:"next"`
	ReviewedAt  time.Time      `gorm:"column:reviewed_at;not null;index" json:"reviewed_at"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (FlashcardReviewLog) TableName() string { return "flashcard_review_log" }
