package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/mentorly/mentorly-backend/internal/domain"
	"github.com/mentorly/mentorly-backend/internal/platform/logger"
)

type NotebookEntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.NotebookEntry) (*types.NotebookEntry, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.NotebookEntry, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.NotebookEntry, error)
	// ListUnlinked pages through entries whose review-record link is missing,
	// in id order so batch repairs can resume.
	ListUnlinked(ctx context.Context, tx *gorm.DB, afterID *uuid.UUID, limit int) ([]*types.NotebookEntry, error)
	SetReviewRecordID(ctx context.Context, tx *gorm.DB, id uuid.UUID, reviewRecordID *uuid.UUID) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type notebookEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotebookEntryRepo(db *gorm.DB, baseLog *logger.Logger) NotebookEntryRepo {
	return &notebookEntryRepo{db: db, log: baseLog.With("repo", "NotebookEntryRepo")}
}

func (r *notebookEntryRepo) Create(ctx context.Context, tx *gorm.DB, row *types.NotebookEntry) (*types.NotebookEntry, error) {
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

func (r *notebookEntryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.NotebookEntry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.NotebookEntry
	if err := t.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *notebookEntryRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.NotebookEntry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.NotebookEntry
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notebookEntryRepo) ListUnlinked(ctx context.Context, tx *gorm.DB, afterID *uuid.UUID, limit int) ([]*types.NotebookEntry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 500
	}
	q := t.WithContext(ctx).Where("review_record_id IS NULL")
	if afterID != nil && *afterID != uuid.Nil {
		q = q.Where("id > ?", *afterID)
	}
	var out []*types.NotebookEntry
	if err := q.Order("id ASC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notebookEntryRepo) SetReviewRecordID(ctx context.Context, tx *gorm.DB, id uuid.UUID, reviewRecordID *uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if err := t.WithContext(ctx).
		Model(&types.NotebookEntry{}).
		Where("id = ?", id).
		Update("review_record_id", reviewRecordID).Error; err != nil {
		return err
	}
	return nil
}

func (r *notebookEntryRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
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
		Delete(&types.NotebookEntry{}).Error; err != nil {
		return err
	}
	return nil
}
