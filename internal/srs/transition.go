package srs

import (
	"fmt"
	"math"
	"time"
)

// Transition applies one graded exposure to an item's scheduling state and
// returns the next state. It is a pure function: the input state is never
// mutated and nothing is read from the clock beyond the supplied now.
//
// The algorithm is the SM-2 variant the platform has always run: a failed
// recall resets the repetition streak and collapses the interval to one day,
// a successful recall adjusts the ease factor by the SM-2 quality curve and
// grows the interval 1 -> 6 -> round(interval * ease).
func Transition(state State, quality Quality, now time.Time, p Policy) (State, error) {
	if !quality.IsValid() {
		return State{}, fmt.Errorf("%w: %d", ErrInvalidQuality, int(quality))
	}

	next := state
	if next.EaseFactor == 0 {
		next.EaseFactor = p.InitialEaseFactor
	}

	if !quality.Passing() {
		next.Repetitions = 0
		if quality < p.LapseOnQualityBelow {
			next.Lapses++
		}
		next.IntervalDays = p.FirstIntervalDays
		next.EaseFactor = math.Max(p.MinEaseFactor, next.EaseFactor-p.FailEasePenalty)
		next.Status = StatusLearning
	} else {
		// EF' = EF + (0.1 - (5-q) * (0.08 + (5-q)*0.02))
		q := float64(quality)
		ease := next.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
		next.EaseFactor = math.Max(p.MinEaseFactor, ease)

		switch next.Repetitions {
		case 0:
			next.Repetitions = 1
			next.IntervalDays = p.FirstIntervalDays
		case 1:
			next.Repetitions = 2
			next.IntervalDays = p.SecondIntervalDays
		default:
			next.Repetitions++
			next.IntervalDays = int(math.Round(float64(next.IntervalDays) * next.EaseFactor))
		}
		next.Status = statusForPass(next, p)
	}

	if next.IntervalDays < 1 {
		next.IntervalDays = 1
	}
	// Stored ease is rounded so repeated multiplication cannot drift.
	next.EaseFactor = roundEase(next.EaseFactor)

	reviewed := now
	next.LastReviewedAt = &reviewed
	next.NextReviewAt = now.AddDate(0, 0, next.IntervalDays)
	return next, nil
}

func statusForPass(s State, p Policy) Status {
	if s.IntervalDays >= p.MasteredMinIntervalDays && s.Repetitions >= p.MasteredMinRepetitions {
		return StatusMastered
	}
	if s.IntervalDays >= p.ReviewingMinIntervalDays {
		return StatusReviewing
	}
	return StatusLearning
}

func roundEase(f float64) float64 {
	return math.Round(f*10000) / 10000
}
