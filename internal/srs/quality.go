package srs

import (
	"errors"
	"fmt"
)

// ErrInvalidQuality is returned when a recall rating falls outside [0,5].
// Check with errors.Is(err, srs.ErrInvalidQuality).
var ErrInvalidQuality = errors.New("srs: invalid quality")

// Quality is the 0-5 self-graded recall rating that drives a transition.
// 0-2 mean the item was not recalled, 3-5 mean it was, with rising confidence.
type Quality int

const (
	QualityBlackout  Quality = iota // no recollection at all
	QualityIncorrect                // wrong, but the answer felt familiar
	QualityAlmost                   // wrong, recalled once the answer was shown
	QualityHard                     // correct with serious effort
	QualityGood                     // correct after brief hesitation
	QualityPerfect                  // instant, effortless recall
)

var qualityNames = [...]string{
	QualityBlackout:  "blackout",
	QualityIncorrect: "incorrect",
	QualityAlmost:    "almost",
	QualityHard:      "hard",
	QualityGood:      "good",
	QualityPerfect:   "perfect",
}

// IsValid reports whether q is inside the closed 0-5 scale.
func (q Quality) IsValid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// Passing reports whether q counts as a successful recall.
func (q Quality) Passing() bool {
	return q >= QualityHard
}

func (q Quality) String() string {
	if q.IsValid() {
		return qualityNames[q]
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}
