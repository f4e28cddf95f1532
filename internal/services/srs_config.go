package services

import (
	"github.com/mentorly/mentorly-backend/internal/platform/envutil"
	"github.com/mentorly/mentorly-backend/internal/srs"
)

// ReviewPolicyFromEnv returns the generic review-record policy with its
// mastery and interval knobs optionally overridden from the environment.
func ReviewPolicyFromEnv() srs.Policy {
	p := srs.DefaultPolicy()
	p.MasteredMinIntervalDays = envutil.Int("SRS_MASTERED_MIN_INTERVAL_DAYS", p.MasteredMinIntervalDays)
	p.MasteredMinRepetitions = envutil.Int("SRS_MASTERED_MIN_REPETITIONS", p.MasteredMinRepetitions)
	p.FailEasePenalty = envutil.Float("SRS_FAIL_EASE_PENALTY", p.FailEasePenalty)
	p.FirstIntervalDays = envutil.Int("SRS_FIRST_INTERVAL_DAYS", p.FirstIntervalDays)
	p.SecondIntervalDays = envutil.Int("SRS_SECOND_INTERVAL_DAYS", p.SecondIntervalDays)
	return p
}

// FlashcardPolicyFromEnv does the same for the flashcard policy.
func FlashcardPolicyFromEnv() srs.Policy {
	p := srs.FlashcardPolicy()
	p.MasteredMinIntervalDays = envutil.Int("SRS_FLASHCARD_MASTERED_MIN_INTERVAL_DAYS", p.MasteredMinIntervalDays)
	p.FailEasePenalty = envutil.Float("SRS_FLASHCARD_FAIL_EASE_PENALTY", p.FailEasePenalty)
	return p
}
