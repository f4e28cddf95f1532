package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/mentorly/mentorly-backend/internal/domain"
	"github.com/mentorly/mentorly-backend/internal/platform/logger"
)

type FlashcardRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Flashcard) ([]*types.Flashcard, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Flashcard, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Flashcard, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, includeArchived bool) ([]*types.Flashcard, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Flashcard) error
	SetArchived(ctx context.Context, tx *gorm.DB, id uuid.UUID, archived bool) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type flashcardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFlashcardRepo(db *gorm.DB, baseLog *logger.Logger) FlashcardRepo {
	return &flashcardRepo{db: db, log: baseLog.With("repo", "FlashcardRepo")}
}

func (r *flashcardRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Flashcard) ([]*types.Flashcard, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Flashcard{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *flashcardRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Flashcard, error) {
	return r.getByID(ctx, tx, id, false)
}

func (r *flashcardRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Flashcard, error) {
	return r.getByID(ctx, tx, id, true)
}

func (r *flashcardRepo) getByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, lock bool) (*types.Flashcard, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	q := t.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row types.Flashcard
	if err := q.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *flashcardRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, includeArchived bool) ([]*types.Flashcard, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Flashcard
	if userID == uuid.Nil {
		return out, nil
	}
	q := t.WithContext(ctx).Where("user_id = ?", userID)
	if !includeArchived {
		q = q.Where("archived = ?", false)
	}
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *flashcardRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Flashcard) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	if err := t.WithContext(ctx).Save(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *flashcardRepo) SetArchived(ctx context.Context, tx *gorm.DB, id uuid.UUID, archived bool) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if err := t.WithContext(ctx).
		Model(&types.Flashcard{}).
		Where("id = ?", id).
		Update("archived", archived).Error; err != nil {
		return err
	}
	return nil
}

func (r *flashcardRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	if err := t.WithContext(ctx).
		Unscoped().
		Where("id IN ?", ids).
		Delete(&types.Flashcard{}).Error; err != nil {
		return err
	}
	return nil
}
