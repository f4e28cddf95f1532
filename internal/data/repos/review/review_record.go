package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/mentorly/mentorly-backend/internal/domain"
	pkgerrors "github.com/mentorly/mentorly-backend/internal/pkg/errors"
	"github.com/mentorly/mentorly-backend/internal/platform/logger"
)

const uniqueViolation = "23505"

// DueFilter narrows a due-queue query. Zero values mean "no filter".
type DueFilter struct {
	ContentType string
	DeckID      *uuid.UUID
	// After resumes past a (next_review_at, id) cursor position.
	AfterNextReviewAt *time.Time
	AfterID           *uuid.UUID
	Limit             int
}

type ReviewRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ReviewRecord) (*types.ReviewRecord, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ReviewRecord, error)
	// GetByIDForUpdate locks the row for the duration of the surrounding
	// transaction so concurrent reviews serialize instead of racing.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ReviewRecord, error)
	GetByContentKey(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID, contentType string) (*types.ReviewRecord, error)
	ListDue(ctx context.Context, tx *gorm.DB, userID uuid.UUID, dueBefore time.Time, f DueFilter) ([]*types.ReviewRecord, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.ReviewRecord) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type reviewRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRecordRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRecordRepo {
	return &reviewRecordRepo{db: db, log: baseLog.With("repo", "ReviewRecordRepo")}
}

func (r *reviewRecordRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ReviewRecord) (*types.ReviewRecord, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil, nil
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, pkgerrors.ErrAlreadyExists
		}
		return nil, err
	}
	return row, nil
}

func (r *reviewRecordRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ReviewRecord, error) {
	return r.getByID(ctx, tx, id, false)
}

func (r *reviewRecordRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ReviewRecord, error) {
	return r.getByID(ctx, tx, id, true)
}

func (r *reviewRecordRepo) getByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, lock bool) (*types.ReviewRecord, error) {
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
	var row types.ReviewRecord
	if err := q.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *reviewRecordRepo) GetByContentKey(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID, contentType string) (*types.ReviewRecord, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || contentID == uuid.Nil || contentType == "" {
		return nil, nil
	}
	var row types.ReviewRecord
	err := t.WithContext(ctx).
		Where("user_id = ? AND content_id = ? AND content_type = ?", userID, contentID, contentType).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *reviewRecordRepo) ListDue(ctx context.Context, tx *gorm.DB, userID uuid.UUID, dueBefore time.Time, f DueFilter) ([]*types.ReviewRecord, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ReviewRecord
	if userID == uuid.Nil {
		return out, nil
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 500
	}
	if limit > 1000 {
		limit = 1000
	}

	q := t.WithContext(ctx).Model(&types.ReviewRecord{}).
		Where("user_id = ?", userID).
		Where("status IN ?", []string{"learning", "reviewing"}).
		Where("next_review_at <= ?", dueBefore)

	if f.ContentType != "" {
		q = q.Where("content_type = ?", f.ContentType)
	}
	if f.DeckID != nil && *f.DeckID != uuid.Nil {
		q = q.Where("deck_id = ?", *f.DeckID)
	}

	// tie-safe cursor: (next_review_at, id)
	if f.AfterNextReviewAt != nil {
		id := uuid.Nil
		if f.AfterID != nil {
			id = *f.AfterID
		}
		q = q.Where("(next_review_at > ?) OR (next_review_at = ? AND id > ?)",
			*f.AfterNextReviewAt, *f.AfterNextReviewAt, id)
	}

	if err := q.Order("next_review_at ASC, id ASC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reviewRecordRepo) Update(ctx context.Context, tx *gorm.DB, row *types.ReviewRecord) error {
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

func (r *reviewRecordRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
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
		Delete(&types.ReviewRecord{}).Error; err != nil {
		return err
	}
	return nil
}
