package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mentorly/mentorly-backend/internal/data/repos/review"
	types "github.com/mentorly/mentorly-backend/internal/domain"
	pkgerrors "github.com/mentorly/mentorly-backend/internal/pkg/errors"
)

// In-memory repo fakes. They ignore the tx argument; services under unit
// test run with a nil database.

type fakeReviewRecordRepo struct {
	rows map[uuid.UUID]*types.ReviewRecord
}

func newFakeReviewRecordRepo() *fakeReviewRecordRepo {
	return &fakeReviewRecordRepo{rows: map[uuid.UUID]*types.ReviewRecord{}}
}

func (f *fakeReviewRecordRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ReviewRecord) (*types.ReviewRecord, error) {
	for _, r := range f.rows {
		if r.UserID == row.UserID && r.ContentID == row.ContentID && r.ContentType == row.ContentType {
			return nil, pkgerrors.ErrAlreadyExists
		}
	}
	cp := *row
	f.rows[row.ID] = &cp
	return row, nil
}

func (f *fakeReviewRecordRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ReviewRecord, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviewRecordRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ReviewRecord, error) {
	return f.GetByID(ctx, tx, id)
}

func (f *fakeReviewRecordRepo) GetByContentKey(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID, contentType string) (*types.ReviewRecord, error) {
	for _, r := range f.rows {
		if r.UserID == userID && r.ContentID == contentID && r.ContentType == contentType {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeReviewRecordRepo) ListDue(ctx context.Context, tx *gorm.DB, userID uuid.UUID, dueBefore time.Time, fl review.DueFilter) ([]*types.ReviewRecord, error) {
	var out []*types.ReviewRecord
	for _, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		if r.Status != "learning" && r.Status != "reviewing" {
			continue
		}
		if r.NextReviewAt.After(dueBefore) {
			continue
		}
		if fl.ContentType != "" && r.ContentType != fl.ContentType {
			continue
		}
		if fl.DeckID != nil && (r.DeckID == nil || *r.DeckID != *fl.DeckID) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].NextReviewAt.Equal(out[j].NextReviewAt) {
			return out[i].NextReviewAt.Before(out[j].NextReviewAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if fl.AfterNextReviewAt != nil {
		afterID := uuid.Nil
		if fl.AfterID != nil {
			afterID = *fl.AfterID
		}
		kept := out[:0]
		for _, r := range out {
			if r.NextReviewAt.After(*fl.AfterNextReviewAt) ||
				(r.NextReviewAt.Equal(*fl.AfterNextReviewAt) && r.ID.String() > afterID.String()) {
				kept = append(kept, r)
			}
		}
		out = kept
	}
	limit := fl.Limit
	if limit <= 0 {
		limit = 500
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeReviewRecordRepo) Update(ctx context.Context, tx *gorm.DB, row *types.ReviewRecord) error {
	cp := *row
	f.rows[row.ID] = &cp
	return nil
}

func (f *fakeReviewRecordRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(f.rows, id)
	}
	return nil
}

type fakeNotebookEntryRepo struct {
	rows map[uuid.UUID]*types.NotebookEntry
}

func newFakeNotebookEntryRepo() *fakeNotebookEntryRepo {
	return &fakeNotebookEntryRepo{rows: map[uuid.UUID]*types.NotebookEntry{}}
}

func (f *fakeNotebookEntryRepo) Create(ctx context.Context, tx *gorm.DB, row *types.NotebookEntry) (*types.NotebookEntry, error) {
	cp := *row
	f.rows[row.ID] = &cp
	return row, nil
}

func (f *fakeNotebookEntryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.NotebookEntry, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeNotebookEntryRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.NotebookEntry, error) {
	var out []*types.NotebookEntry
	for _, r := range f.rows {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeNotebookEntryRepo) ListUnlinked(ctx context.Context, tx *gorm.DB, afterID *uuid.UUID, limit int) ([]*types.NotebookEntry, error) {
	var out []*types.NotebookEntry
	for _, r := range f.rows {
		if r.ReviewRecordID != nil {
			continue
		}
		if afterID != nil && r.ID.String() <= afterID.String() {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNotebookEntryRepo) SetReviewRecordID(ctx context.Context, tx *gorm.DB, id uuid.UUID, reviewRecordID *uuid.UUID) error {
	if r, ok := f.rows[id]; ok {
		r.ReviewRecordID = reviewRecordID
	}
	return nil
}

func (f *fakeNotebookEntryRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(f.rows, id)
	}
	return nil
}

type fakeFlashcardRepo struct {
	rows map[uuid.UUID]*types.Flashcard
}

func newFakeFlashcardRepo() *fakeFlashcardRepo {
	return &fakeFlashcardRepo{rows: map[uuid.UUID]*types.Flashcard{}}
}

func (f *fakeFlashcardRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Flashcard) ([]*types.Flashcard, error) {
	for _, row := range rows {
		cp := *row
		f.rows[row.ID] = &cp
	}
	return rows, nil
}

func (f *fakeFlashcardRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Flashcard, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeFlashcardRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Flashcard, error) {
	return f.GetByID(ctx, tx, id)
}

func (f *fakeFlashcardRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, includeArchived bool) ([]*types.Flashcard, error) {
	var out []*types.Flashcard
	for _, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		if !includeArchived && r.Archived {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeFlashcardRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Flashcard) error {
	cp := *row
	f.rows[row.ID] = &cp
	return nil
}

func (f *fakeFlashcardRepo) SetArchived(ctx context.Context, tx *gorm.DB, id uuid.UUID, archived bool) error {
	if r, ok := f.rows[id]; ok {
		r.Archived = archived
	}
	return nil
}

func (f *fakeFlashcardRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(f.rows, id)
	}
	return nil
}

type fakeFlashcardReviewLogRepo struct {
	rows []*types.FlashcardReviewLog
}

func (f *fakeFlashcardReviewLogRepo) Append(ctx context.Context, tx *gorm.DB, row *types.FlashcardReviewLog) (*types.FlashcardReviewLog, error) {
	cp := *row
	f.rows = append(f.rows, &cp)
	return row, nil
}

func (f *fakeFlashcardReviewLogRepo) ListByFlashcard(ctx context.Context, tx *gorm.DB, flashcardID uuid.UUID, limit int) ([]*types.FlashcardReviewLog, error) {
	var out []*types.FlashcardReviewLog
	for _, r := range f.rows {
		if r.FlashcardID == flashcardID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakePerformanceStore struct {
	topics []string
	err    error
	calls  int
}

func (f *fakePerformanceStore) GetWeakestTopics(ctx context.Context, userID uuid.UUID) ([]string, error) {
	f.calls++
	return f.topics, f.err
}

type fakeContentLookup struct {
	ids map[string][]uuid.UUID
}

func (f *fakeContentLookup) FindContentIDsByTopics(ctx context.Context, topics []string, contentType string) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, t := range topics {
		out = append(out, f.ids[t]...)
	}
	return out, nil
}
