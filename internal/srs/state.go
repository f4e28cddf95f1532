package srs

import "time"

// Status describes where an item sits in its review lifecycle.
type Status string

const (
	StatusLearning  Status = "learning"
	StatusReviewing Status = "reviewing"
	StatusMastered  Status = "mastered"
)

// State is the full scheduling state of one reviewable item. It is embedded
// verbatim in both review records and flashcards; Transition is the only
// thing that should ever mutate it.
type State struct {
	EaseFactor     float64
	IntervalDays   int
	Repetitions    int
	Lapses         int
	Status         Status
	LastReviewedAt *time.Time
	NextReviewAt   time.Time
}

// NewState returns the state of an item seen for the first time: default
// ease, a one-day interval, and no review history.
func NewState(now time.Time, p Policy) State {
	return State{
		EaseFactor:   p.InitialEaseFactor,
		IntervalDays: p.FirstIntervalDays,
		Repetitions:  0,
		Lapses:       0,
		Status:       StatusLearning,
		NextReviewAt: now.AddDate(0, 0, p.FirstIntervalDays),
	}
}

// Due reports whether the item should be shown at time now.
func (s State) Due(now time.Time) bool {
	return s.Status != StatusMastered && !s.NextReviewAt.After(now)
}
