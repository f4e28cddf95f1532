package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mentorly/mentorly-backend/internal/srs"
)

// Content types a review record can point at. The scheduler itself treats
// the value as opaque; only due-queue prioritization cares about questions.
const (
	ContentTypeQuestion      = "question"
	ContentTypeNotebookEntry = "notebook_entry"
	ContentTypeArticle       = "article"
)

// ReviewRecord holds one user's spaced-repetition state for one piece of
// content that does not embed its own scheduling fields. The composite
// unique index makes the (user, content) pairing a storage-level guarantee,
// so concurrent first exposures cannot mint duplicates.
type ReviewRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_review_content_key,unique,priority:1" json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ContentID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_review_content_key,unique,priority:2" json:"content_id"`
	ContentType string     `gorm:"column:content_type;not null;index:idx_review_content_key,unique,priority:3" json:"content_type"`
	DeckID      *uuid.UUID `gorm:"type:uuid;index" json:"deck_id,omitempty"`

	EaseFactor     float64    `gorm:"column:ease_factor;not null;default:2.5" json:"ease_factor"`
	IntervalDays   int        `gorm:"column:interval_days;not null;default:1" json:"interval_days"`
	Repetitions    int        `gorm:"column:repetitions;not null;default:0" json:"repetitions"`
	Lapses         int        `gorm:"column:lapses;not null;default:0" json:"lapses"`
	Status         string     `gorm:"column:status;not null;default:'learning';index" json:"status"`
	LastReviewedAt *time.Time `gorm:"column:last_reviewed_at" json:"last_reviewed_at,omitempty"`
	NextReviewAt   time.Time  `gorm:"column:next_review_at;not null;index" json:"next_review_at"`

	OriginalAnswerCorrect *bool  `gorm:"column:original_answer_correct" json:"original_answer_correct,omitempty"`
	Notes                 string `gorm:"column:notes" json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ReviewRecord) TableName() string { return "review_record" }

// SRSState lifts the stored scheduling columns into the algorithm type.
func (r *ReviewRecord) SRSState() srs.State {
	return srs.State{
		EaseFactor:     r.EaseFactor,
		IntervalDays:   r.IntervalDays,
		Repetitions:    r.Repetitions,
		Lapses:         r.Lapses,
		Status:         srs.Status(r.Status),
		LastReviewedAt: r.LastReviewedAt,
		NextReviewAt:   r.NextReviewAt,
	}
}

// ApplySRSState writes a transition result back onto the stored columns.
func (r *ReviewRecord) ApplySRSState(st srs.State) {
	r.EaseFactor = st.EaseFactor
	r.IntervalDays = st.IntervalDays
	r.Repetitions = st.Repetitions
	r.Lapses = st.Lapses
	r.Status = string(st.Status)
	r.LastReviewedAt = st.LastReviewedAt
	r.NextReviewAt = st.NextReviewAt
}
