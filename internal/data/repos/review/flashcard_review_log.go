package review

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/mentorly/mentorly-backend/internal/domain"
	"github.com/mentorly/mentorly-backend/internal/platform/logger"
)

// FlashcardReviewLogRepo is append-only; log rows are never updated or
// individually deleted.
type FlashcardReviewLogRepo interface {
	Append(ctx context.Context, tx *gorm.DB, row *types.FlashcardReviewLog) (*types.FlashcardReviewLog, error)
	ListByFlashcard(ctx context.Context, tx *gorm.DB, flashcardID uuid.UUID, limit int) ([]*types.FlashcardReviewLog, error)
}

type flashcardReviewLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFlashcardReviewLogRepo(db *gorm.DB, baseLog *logger.Logger) FlashcardReviewLogRepo {
	return &flashcardReviewLogRepo{db: db, log: baseLog.With("repo", "FlashcardReviewLogRepo")}
}

func (r *flashcardReviewLogRepo) Append(ctx context.Context, tx *gorm.DB, row *types.FlashcardReviewLog) (*types.FlashcardReviewLog, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil, nil
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *flashcardReviewLogRepo) ListByFlashcard(ctx context.Context, tx *gorm.DB, flashcardID uuid.UUID, limit int) ([]*types.FlashcardReviewLog, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.FlashcardReviewLog
	if flashcardID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 100
	}
	if err := t.WithContext(ctx).
		Where("flashcard_id = ?", flashcardID).
		Order("reviewed_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
