package srs

// Policy is the knob set for one family of reviewable content. The platform
// historically graded flashcards and generic review records with slightly
// different thresholds; keeping both as named Policy values preserves that
// behavior while sharing a single transition function.
type Policy struct {
	InitialEaseFactor float64
	MinEaseFactor     float64
	// FailEasePenalty is subtracted from the ease factor on a failed recall.
	FailEasePenalty float64

	FirstIntervalDays  int
	SecondIntervalDays int

	// ReviewingMinIntervalDays is the smallest interval that counts as
	// "reviewing" after a pass; a pass below it stays in "learning".
	ReviewingMinIntervalDays int
	MasteredMinIntervalDays  int
	MasteredMinRepetitions   int

	// LapseOnQualityBelow sets which failed recalls count as a lapse:
	// only failures strictly below this rating increment the counter.
	LapseOnQualityBelow Quality
}

// DefaultPolicy grades generic review records (missed questions, notebook
// entries and any other linked content).
func DefaultPolicy() Policy {
	return Policy{
		InitialEaseFactor:        2.5,
		MinEaseFactor:            1.3,
		FailEasePenalty:          0.2,
		FirstIntervalDays:        1,
		SecondIntervalDays:       6,
		ReviewingMinIntervalDays: 1,
		MasteredMinIntervalDays:  16,
		MasteredMinRepetitions:   3,
		LapseOnQualityBelow:      QualityHard,
	}
}

// FlashcardPolicy grades flashcards. Mastery requires a month-long interval,
// short intervals stay in "learning", and only a total blackout is counted
// as a lapse.
func FlashcardPolicy() Policy {
	return Policy{
		InitialEaseFactor:        2.5,
		MinEaseFactor:            1.3,
		FailEasePenalty:          0.2,
		FirstIntervalDays:        1,
		SecondIntervalDays:       6,
		ReviewingMinIntervalDays: 2,
		MasteredMinIntervalDays:  31,
		MasteredMinRepetitions:   0,
		LapseOnQualityBelow:      QualityIncorrect,
	}
}
