package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mentorly/mentorly-backend/internal/data/repos/review"
	types "github.com/mentorly/mentorly-backend/internal/domain"
	pkgerrors "github.com/mentorly/mentorly-backend/internal/pkg/errors"
	"github.com/mentorly/mentorly-backend/internal/platform/logger"
	"github.com/mentorly/mentorly-backend/internal/srs"
)

type CreateReviewRecordInput struct {
	UserID      uuid.UUID
	ContentID   uuid.UUID
	ContentType string
	DeckID      *uuid.UUID

	OriginalAnswerCorrect *bool
	Notes                 string

	// InitialState seeds the record with pre-existing scheduling state
	// (used when migrating history from another source). Nil means the
	// standard fresh-item defaults.
	InitialState *srs.State
}

// ReviewService owns the generic review-record lifecycle. It never touches
// topic accuracy or content stores; those belong to their own services.
type ReviewService interface {
	Create(ctx context.Context, tx *gorm.DB, in CreateReviewRecordInput) (*types.ReviewRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.ReviewRecord, error)
	// GetByContentKey returns (nil, nil) when no record exists for the key.
	GetByContentKey(ctx context.Context, userID, contentID uuid.UUID, contentType string) (*types.ReviewRecord, error)
	RecordReview(ctx context.Context, id uuid.UUID, quality srs.Quality, notes string) (*types.ReviewRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewService struct {
	db      *gorm.DB
	log     *logger.Logger
	records review.ReviewRecordRepo
	policy  srs.Policy
}

func NewReviewService(db *gorm.DB, baseLog *logger.Logger, records review.ReviewRecordRepo, policy srs.Policy) ReviewService {
	return &reviewService{
		db:      db,
		log:     baseLog.With("service", "ReviewService"),
		records: records,
		policy:  policy,
	}
}

func (s *reviewService) Create(ctx context.Context, tx *gorm.DB, in CreateReviewRecordInput) (*types.ReviewRecord, error) {
	if in.UserID == uuid.Nil || in.ContentID == uuid.Nil || in.ContentType == "" {
		return nil, fmt.Errorf("%w: missing content key", pkgerrors.ErrInvalidArgument)
	}

	existing, err := s.records.GetByContentKey(ctx, tx, in.UserID, in.ContentID, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("lookup before create: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("review record for content %s: %w", in.ContentID, pkgerrors.ErrAlreadyExists)
	}

	now := time.Now().UTC()
	state := srs.NewState(now, s.policy)
	if in.InitialState != nil {
		state = *in.InitialState
	}

	row := &types.ReviewRecord{
		ID:                    uuid.New(),
		UserID:                in.UserID,
		ContentID:             in.ContentID,
		ContentType:           in.ContentType,
		DeckID:                in.DeckID,
		OriginalAnswerCorrect: in.OriginalAnswerCorrect,
		Notes:                 in.Notes,
	}
	row.ApplySRSState(state)

	// The unique index on (user_id, content_id, content_type) backstops the
	// lookup above when two first exposures race.
	created, err := s.records.Create(ctx, tx, row)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *reviewService) GetByID(ctx context.Context, id uuid.UUID) (*types.ReviewRecord, error) {
	row, err := s.records.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("review record %s: %w", id, pkgerrors.ErrNotFound)
	}
	return row, nil
}

func (s *reviewService) GetByContentKey(ctx context.Context, userID, contentID uuid.UUID, contentType string) (*types.ReviewRecord, error) {
	return s.records.GetByContentKey(ctx, nil, userID, contentID, contentType)
}

func (s *reviewService) RecordReview(ctx context.Context, id uuid.UUID, quality srs.Quality, notes string) (*types.ReviewRecord, error) {
	if !quality.IsValid() {
		return nil, fmt.Errorf("%w: %d", srs.ErrInvalidQuality, int(quality))
	}

	var updated *types.ReviewRecord
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		row, err := s.records.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("load review record %s: %w", id, err)
		}
		if row == nil {
			return fmt.Errorf("review record %s: %w", id, pkgerrors.ErrNotFound)
		}

		next, err := srs.Transition(row.SRSState(), quality, time.Now().UTC(), s.policy)
		if err != nil {
			return err
		}
		row.ApplySRSState(next)
		if notes != "" {
			row.Notes = notes
		}
		if err := s.records.Update(ctx, tx, row); err != nil {
			return fmt.Errorf("persist review record %s: %w", id, err)
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *reviewService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return s.records.FullDeleteByIDs(ctx, nil, []uuid.UUID{id})
}

// inTx runs fn inside a database transaction; with no database configured
// (unit tests against fake repos) fn runs directly.
func (s *reviewService) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.WithContext(ctx).Transaction(fn)
}
