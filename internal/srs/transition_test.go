package srs

import (
	"errors"
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestTransitionRejectsOutOfRangeQuality(t *testing.T) {
	for _, q := range []Quality{-1, 6, 42} {
		_, err := Transition(NewState(testNow, DefaultPolicy()), q, testNow, DefaultPolicy())
		if !errors.Is(err, ErrInvalidQuality) {
			t.Fatalf("quality %d: expected ErrInvalidQuality, got %v", q, err)
		}
	}
}

func TestTransitionBoundsHoldForAllInputs(t *testing.T) {
	p := DefaultPolicy()
	starts := []State{
		NewState(testNow, p),
		{EaseFactor: 1.3, IntervalDays: 1, Repetitions: 0, Status: StatusLearning},
		{EaseFactor: 1.31, IntervalDays: 200, Repetitions: 9, Status: StatusReviewing},
		{EaseFactor: 3.4, IntervalDays: 45, Repetitions: 4, Lapses: 7, Status: StatusMastered},
	}
	for _, st := range starts {
		for q := QualityBlackout; q <= QualityPerfect; q++ {
			next, err := Transition(st, q, testNow, p)
			if err != nil {
				t.Fatalf("Transition(%+v, %s): %v", st, q, err)
			}
			if next.EaseFactor < p.MinEaseFactor {
				t.Fatalf("quality %s: ease %v below floor", q, next.EaseFactor)
			}
			if next.IntervalDays < 1 {
				t.Fatalf("quality %s: interval %d below 1", q, next.IntervalDays)
			}
			if next.Lapses < st.Lapses {
				t.Fatalf("quality %s: lapses decreased %d -> %d", q, st.Lapses, next.Lapses)
			}
			if next.LastReviewedAt == nil || !next.LastReviewedAt.Equal(testNow) {
				t.Fatalf("quality %s: lastReviewedAt not set to now", q)
			}
			want := testNow.AddDate(0, 0, next.IntervalDays)
			if !next.NextReviewAt.Equal(want) {
				t.Fatalf("quality %s: nextReviewAt=%v want=%v", q, next.NextReviewAt, want)
			}
		}
	}
}

func TestTransitionPerfectRecallSequence(t *testing.T) {
	p := DefaultPolicy()
	st := State{EaseFactor: 2.5}

	wantIntervals := []int{1, 6}
	wantReps := []int{1, 2, 3}

	var err error
	for i := 0; i < 3; i++ {
		st, err = Transition(st, QualityPerfect, testNow, p)
		if err != nil {
			t.Fatalf("pass %d: %v", i+1, err)
		}
		if st.Repetitions != wantReps[i] {
			t.Fatalf("pass %d: reps=%d want=%d", i+1, st.Repetitions, wantReps[i])
		}
		if i < 2 && st.IntervalDays != wantIntervals[i] {
			t.Fatalf("pass %d: interval=%d want=%d", i+1, st.IntervalDays, wantIntervals[i])
		}
	}

	// Third interval is round(6 * ease'), with ease' grown by +0.1 per
	// perfect pass: 2.5 -> 2.6 -> 2.7 -> 2.8.
	if math.Abs(st.EaseFactor-2.8) > 1e-9 {
		t.Fatalf("ease after three perfect passes: %v want 2.8", st.EaseFactor)
	}
	if want := int(math.Round(6 * 2.8)); st.IntervalDays != want {
		t.Fatalf("third interval: %d want %d", st.IntervalDays, want)
	}
}

func TestTransitionFailResets(t *testing.T) {
	p := DefaultPolicy()
	for _, q := range []Quality{QualityBlackout, QualityIncorrect, QualityAlmost} {
		st := State{
			EaseFactor:   2.2,
			IntervalDays: 40,
			Repetitions:  5,
			Lapses:       2,
			Status:       StatusReviewing,
		}
		next, err := Transition(st, q, testNow, p)
		if err != nil {
			t.Fatalf("quality %s: %v", q, err)
		}
		if next.Repetitions != 0 {
			t.Fatalf("quality %s: reps=%d want 0", q, next.Repetitions)
		}
		if next.IntervalDays != 1 {
			t.Fatalf("quality %s: interval=%d want 1", q, next.IntervalDays)
		}
		if next.Lapses != 3 {
			t.Fatalf("quality %s: lapses=%d want 3", q, next.Lapses)
		}
		if next.Status != StatusLearning {
			t.Fatalf("quality %s: status=%s want learning", q, next.Status)
		}
		if math.Abs(next.EaseFactor-2.0) > 1e-9 {
			t.Fatalf("quality %s: ease=%v want 2.0", q, next.EaseFactor)
		}
	}
}

func TestTransitionFailNeverDropsEaseBelowFloor(t *testing.T) {
	p := DefaultPolicy()
	st := State{EaseFactor: 1.35, IntervalDays: 3, Repetitions: 2}
	next, err := Transition(st, QualityBlackout, testNow, p)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if next.EaseFactor != 1.3 {
		t.Fatalf("ease=%v want 1.3", next.EaseFactor)
	}
}

func TestTransitionIsNotIdempotent(t *testing.T) {
	p := DefaultPolicy()
	st := NewState(testNow, p)

	first, err := Transition(st, QualityGood, testNow, p)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := Transition(first, QualityGood, testNow, p)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.Repetitions == second.Repetitions && first.IntervalDays == second.IntervalDays {
		t.Fatalf("same quality twice must advance state: first=%+v second=%+v", first, second)
	}
	if second.Repetitions != 2 || second.IntervalDays != 6 {
		t.Fatalf("second pass: reps=%d interval=%d want reps=2 interval=6",
			second.Repetitions, second.IntervalDays)
	}
}

func TestTransitionMasteryPromotion(t *testing.T) {
	p := DefaultPolicy()
	st := State{EaseFactor: 2.7, IntervalDays: 6, Repetitions: 2, Status: StatusReviewing}
	next, err := Transition(st, QualityPerfect, testNow, p)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if next.Repetitions != 3 || next.IntervalDays < p.MasteredMinIntervalDays {
		t.Fatalf("setup did not cross thresholds: %+v", next)
	}
	if next.Status != StatusMastered {
		t.Fatalf("status=%s want mastered", next.Status)
	}
}

func TestTransitionFlashcardPolicyDivergence(t *testing.T) {
	p := FlashcardPolicy()

	// A first pass lands on a one-day interval, which for flashcards is
	// still "learning" rather than "reviewing".
	st, err := Transition(State{EaseFactor: 2.5}, QualityGood, testNow, p)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if st.IntervalDays != 1 || st.Status != StatusLearning {
		t.Fatalf("first pass: interval=%d status=%s want 1/learning", st.IntervalDays, st.Status)
	}

	// A partial failure does not count as a lapse for flashcards; only a
	// blackout does.
	failed, err := Transition(st, QualityAlmost, testNow, p)
	if err != nil {
		t.Fatalf("partial fail: %v", err)
	}
	if failed.Lapses != 0 {
		t.Fatalf("partial fail: lapses=%d want 0", failed.Lapses)
	}
	blank, err := Transition(st, QualityBlackout, testNow, p)
	if err != nil {
		t.Fatalf("blackout: %v", err)
	}
	if blank.Lapses != 1 {
		t.Fatalf("blackout: lapses=%d want 1", blank.Lapses)
	}

	// Mastery needs a >30 day interval.
	big := State{EaseFactor: 2.5, IntervalDays: 13, Repetitions: 5, Status: StatusReviewing}
	next, err := Transition(big, QualityPerfect, testNow, p)
	if err != nil {
		t.Fatalf("mastery pass: %v", err)
	}
	if next.IntervalDays <= 30 {
		t.Fatalf("setup did not cross threshold: %+v", next)
	}
	if next.Status != StatusMastered {
		t.Fatalf("status=%s want mastered", next.Status)
	}
}

func TestTransitionEaseRoundedToFourDecimals(t *testing.T) {
	p := DefaultPolicy()
	st := State{EaseFactor: 2.5111119, IntervalDays: 6, Repetitions: 2}
	next, err := Transition(st, QualityHard, testNow, p)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	// 2.5111119 - 0.14 = 2.3711119, stored as 2.3711.
	if math.Abs(next.EaseFactor-2.3711) > 1e-9 {
		t.Fatalf("ease %v want 2.3711", next.EaseFactor)
	}
}

func TestNewStateDefaults(t *testing.T) {
	p := DefaultPolicy()
	st := NewState(testNow, p)
	if st.EaseFactor != 2.5 || st.IntervalDays != 1 || st.Repetitions != 0 || st.Lapses != 0 {
		t.Fatalf("unexpected defaults: %+v", st)
	}
	if st.Status != StatusLearning {
		t.Fatalf("status=%s want learning", st.Status)
	}
	if !st.NextReviewAt.Equal(testNow.AddDate(0, 0, 1)) {
		t.Fatalf("nextReviewAt=%v want now+1d", st.NextReviewAt)
	}
	if !st.Due(testNow.AddDate(0, 0, 2)) {
		t.Fatalf("expected state to be due after its interval")
	}
	if st.Due(testNow) {
		t.Fatalf("fresh state must not be due immediately")
	}
}
