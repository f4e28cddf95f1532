package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mentorly/mentorly-backend/internal/data/repos/review"
	types "github.com/mentorly/mentorly-backend/internal/domain"
	pkgerrors "github.com/mentorly/mentorly-backend/internal/pkg/errors"
	"github.com/mentorly/mentorly-backend/internal/platform/logger"
	"github.com/mentorly/mentorly-backend/internal/srs"
)

type CreateFlashcardInput struct {
	UserID        uuid.UUID
	DeckID        *uuid.UUID
	Front         string
	Back          string
	Media         datatypes.JSON
	Tags          datatypes.JSON
	PersonalNotes string
}

type FlashcardService interface {
	CreateFlashcard(ctx context.Context, tx *gorm.DB, in CreateFlashcardInput) (*types.Flashcard, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Flashcard, error)
	// RecordInteraction grades one exposure, appends the audit-log row and
	// returns both the updated card and that row.
	RecordInteraction(ctx context.Context, userID, flashcardID uuid.UUID, quality srs.Quality) (*types.Flashcard, *types.FlashcardReviewLog, error)
	Archive(ctx context.Context, userID, flashcardID uuid.UUID) error
	Delete(ctx context.Context, userID, flashcardID uuid.UUID) error
	ListReviewLog(ctx context.Context, flashcardID uuid.UUID, limit int) ([]*types.FlashcardReviewLog, error)
}

type flashcardService struct {
	db     *gorm.DB
	log    *logger.Logger
	cards  review.FlashcardRepo
	logs   review.FlashcardReviewLogRepo
	policy srs.Policy
}

func NewFlashcardService(db *gorm.DB, baseLog *logger.Logger, cards review.FlashcardRepo, logs review.FlashcardReviewLogRepo, policy srs.Policy) FlashcardService {
	return &flashcardService{
		db:     db,
		log:    baseLog.With("service", "FlashcardService"),
		cards:  cards,
		logs:   logs,
		policy: policy,
	}
}

func (s *flashcardService) CreateFlashcard(ctx context.Context, tx *gorm.DB, in CreateFlashcardInput) (*types.Flashcard, error) {
	if in.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user id", pkgerrors.ErrInvalidArgument)
	}
	if in.Front == "" || in.Back == "" {
		return nil, fmt.Errorf("%w: flashcard needs both sides", pkgerrors.ErrInvalidArgument)
	}

	row := &types.Flashcard{
		ID:            uuid.New(),
		UserID:        in.UserID,
		DeckID:        in.DeckID,
		Front:         in.Front,
		Back:          in.Back,
		Media:         in.Media,
		Tags:          in.Tags,
		PersonalNotes: in.PersonalNotes,
	}
	row.ApplySRSState(srs.NewState(time.Now().UTC(), s.policy))

	created, err := s.cards.Create(ctx, tx, []*types.Flashcard{row})
	if err != nil {
		return nil, fmt.Errorf("create flashcard: %w", err)
	}
	return created[0], nil
}

func (s *flashcardService) GetByID(ctx context.Context, id uuid.UUID) (*types.Flashcard, error) {
	row, err := s.cards.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("flashcard %s: %w", id, pkgerrors.ErrNotFound)
	}
	return row, nil
}

func (s *flashcardService) RecordInteraction(ctx context.Context, userID, flashcardID uuid.UUID, quality srs.Quality) (*types.Flashcard, *types.FlashcardReviewLog, error) {
	if !quality.IsValid() {
		return nil, nil, fmt.Errorf("%w: %d", srs.ErrInvalidQuality, int(quality))
	}

	var (
		card  *types.Flashcard
		entry *types.FlashcardReviewLog
	)
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		row, err := s.cards.GetByIDForUpdate(ctx, tx, flashcardID)
		if err != nil {
			return fmt.Errorf("load flashcard %s: %w", flashcardID, err)
		}
		if row == nil || row.UserID != userID {
			return fmt.Errorf("flashcard %s: %w", flashcardID, pkgerrors.ErrNotFound)
		}

		now := time.Now().UTC()
		prev := row.SRSState()
		next, err := srs.Transition(prev, quality, now, s.policy)
		if err != nil {
			return err
		}
		row.ApplySRSState(next)
		if err := s.cards.Update(ctx, tx, row); err != nil {
			return fmt.Errorf("persist flashcard %s: %w", flashcardID, err)
		}

		logRow := &types.FlashcardReviewLog{
			ID:          uuid.New(),
			FlashcardID: row.ID,
			UserID:      userID,
			Quality:     int(quality),
			Previous:    snapshotJSON(prev),
			Next:        snapshotJSON(next),
			ReviewedAt:  now,
		}
		if _, err := s.logs.Append(ctx, tx, logRow); err != nil {
			return fmt.Errorf("append review log for %s: %w", flashcardID, err)
		}

		card = row
		entry = logRow
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return card, entry, nil
}

func (s *flashcardService) Archive(ctx context.Context, userID, flashcardID uuid.UUID) error {
	row, err := s.cards.GetByID(ctx, nil, flashcardID)
	if err != nil {
		return err
	}
	if row == nil || row.UserID != userID {
		return fmt.Errorf("flashcard %s: %w", flashcardID, pkgerrors.ErrNotFound)
	}
	return s.cards.SetArchived(ctx, nil, flashcardID, true)
}

func (s *flashcardService) Delete(ctx context.Context, userID, flashcardID uuid.UUID) error {
	row, err := s.cards.GetByID(ctx, nil, flashcardID)
	if err != nil {
		return err
	}
	if row == nil || row.UserID != userID {
		return fmt.Errorf("flashcard %s: %w", flashcardID, pkgerrors.ErrNotFound)
	}
	return s.cards.FullDeleteByIDs(ctx, nil, []uuid.UUID{flashcardID})
}

func (s *flashcardService) ListReviewLog(ctx context.Context, flashcardID uuid.UUID, limit int) ([]*types.FlashcardReviewLog, error) {
	return s.logs.ListByFlashcard(ctx, nil, flashcardID, limit)
}

func (s *flashcardService) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// srsSnapshot is the stored shape of one side of a review-log row.
type srsSnapshot struct {
	EaseFactor   float64    `json:"ease_factor"`
	IntervalDays int        `json:"interval_days"`
	Repetitions  int        `json:"repetitions"`
	Lapses       int        `json:"lapses"`
	Status       string     `json:"status"`
	NextReviewAt *time.Time `json:"next_review_at,omitempty"`
}

func snapshotJSON(st srs.State) datatypes.JSON {
	snap := srsSnapshot{
		EaseFactor:   st.EaseFactor,
		IntervalDays: st.IntervalDays,
		Repetitions:  st.Repetitions,
		Lapses:       st.Lapses,
		Status:       string(st.Status),
	}
	if !st.NextReviewAt.IsZero() {
		t := st.NextReviewAt
		snap.NextReviewAt = &t
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return datatypes.JSON([]byte(`{}`))
	}
	return datatypes.JSON(raw)
}
