package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mentorly/mentorly-backend/internal/data/repos/review"
	types "github.com/mentorly/mentorly-backend/internal/domain"
	pkgerrors "github.com/mentorly/mentorly-backend/internal/pkg/errors"
	"github.com/mentorly/mentorly-backend/internal/platform/logger"
	"github.com/mentorly/mentorly-backend/internal/srs"
)

// ErrLinkRepair reports that an entry's review-record link could not be
// created or re-associated. The exposure degrades to unscored; existing
// scheduling state is never touched on this path.
var ErrLinkRepair = errors.New("review link repair failed")

// repairChunkSize caps one batch of bulk link repair, matching the store's
// write-batch ceiling.
const repairChunkSize = 500

type CreateNotebookEntryInput struct {
	UserID        uuid.UUID
	QuestionID    uuid.UUID
	Topic         string
	WrongAnswer   string
	CorrectAnswer string
	Explanation   string
	Notes         string
}

// BatchReport summarizes a bulk repair run. A partial failure is reported,
// not rolled back and not retried here.
type BatchReport struct {
	Scanned  int
	Repaired int
	Failed   int
}

// NotebookService is the link adapter between error-notebook entries and the
// review records that hold their scheduling state.
type NotebookService interface {
	// CreateEntry writes the entry row, then its review record, then the
	// back-reference. The last two steps are best-effort: an entry without
	// a link is a valid degraded state healed on first review.
	CreateEntry(ctx context.Context, in CreateNotebookEntryInput) (*types.NotebookEntry, error)
	GetEntry(ctx context.Context, id uuid.UUID) (*types.NotebookEntry, error)
	ListEntries(ctx context.Context, userID uuid.UUID) ([]*types.NotebookEntry, error)
	// ReviewEntry grades one exposure of the entry's question, repairing a
	// missing link first if needed.
	ReviewEntry(ctx context.Context, entryID uuid.UUID, quality srs.Quality, notes string) (*types.ReviewRecord, error)
	// DeleteEntry removes the entry and, best effort, its review record.
	DeleteEntry(ctx context.Context, entryID uuid.UUID) error
	// RepairLinks walks all unlinked entries in chunks and re-establishes
	// their review-record links.
	RepairLinks(ctx context.Context) (BatchReport, error)
}

type notebookService struct {
	db      *gorm.DB
	log     *logger.Logger
	entries review.NotebookEntryRepo
	reviews ReviewService
}

func NewNotebookService(db *gorm.DB, baseLog *logger.Logger, entries review.NotebookEntryRepo, reviews ReviewService) NotebookService {
	return &notebookService{
		db:      db,
		log:     baseLog.With("service", "NotebookService"),
		entries: entries,
		reviews: reviews,
	}
}

func (s *notebookService) CreateEntry(ctx context.Context, in CreateNotebookEntryInput) (*types.NotebookEntry, error) {
	if in.UserID == uuid.Nil || in.QuestionID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user or question id", pkgerrors.ErrInvalidArgument)
	}

	row := &types.NotebookEntry{
		ID:            uuid.New(),
		UserID:        in.UserID,
		QuestionID:    in.QuestionID,
		Topic:         in.Topic,
		WrongAnswer:   in.WrongAnswer,
		CorrectAnswer: in.CorrectAnswer,
		Explanation:   in.Explanation,
		Notes:         in.Notes,
	}
	entry, err := s.entries.Create(ctx, nil, row)
	if err != nil {
		return nil, fmt.Errorf("create notebook entry: %w", err)
	}

	if err := s.linkEntry(ctx, entry); err != nil {
		// Degraded but usable: the entry exists, the link heals on review.
		s.log.Warn("notebook entry left unlinked",
			"entry_id", entry.ID, "question_id", entry.QuestionID, "error", err)
	}
	return entry, nil
}

func (s *notebookService) GetEntry(ctx context.Context, id uuid.UUID) (*types.NotebookEntry, error) {
	row, err := s.entries.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("notebook entry %s: %w", id, pkgerrors.ErrNotFound)
	}
	return row, nil
}

func (s *notebookService) ListEntries(ctx context.Context, userID uuid.UUID) ([]*types.NotebookEntry, error) {
	return s.entries.ListByUser(ctx, nil, userID)
}

func (s *notebookService) ReviewEntry(ctx context.Context, entryID uuid.UUID, quality srs.Quality, notes string) (*types.ReviewRecord, error) {
	entry, err := s.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	recordID, err := s.ensureLinked(ctx, entry)
	if err != nil {
		s.log.Error("review degraded to unscored",
			"entry_id", entryID, "question_id", entry.QuestionID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrLinkRepair, err)
	}

	return s.reviews.RecordReview(ctx, recordID, quality, notes)
}

func (s *notebookService) DeleteEntry(ctx context.Context, entryID uuid.UUID) error {
	entry, err := s.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}

	if err := s.entries.FullDeleteByIDs(ctx, nil, []uuid.UUID{entryID}); err != nil {
		return fmt.Errorf("delete notebook entry %s: %w", entryID, err)
	}

	if entry.ReviewRecordID != nil {
		if err := s.reviews.Delete(ctx, *entry.ReviewRecordID); err != nil {
			// Orphaned review record; not worth failing the deletion over.
			s.log.Warn("failed to cascade review record delete",
				"entry_id", entryID, "review_record_id", *entry.ReviewRecordID, "error", err)
		}
	}
	return nil
}

func (s *notebookService) RepairLinks(ctx context.Context) (BatchReport, error) {
	var report BatchReport
	var after *uuid.UUID

	for {
		batch, err := s.entries.ListUnlinked(ctx, nil, after, repairChunkSize)
		if err != nil {
			return report, fmt.Errorf("list unlinked entries: %w", err)
		}
		if len(batch) == 0 {
			return report, nil
		}

		for _, entry := range batch {
			report.Scanned++
			if err := s.linkEntry(ctx, entry); err != nil {
				report.Failed++
				s.log.Warn("link repair failed", "entry_id", entry.ID, "error", err)
				continue
			}
			report.Repaired++
		}

		last := batch[len(batch)-1].ID
		after = &last
	}
}

// ensureLinked returns the id of the entry's review record, healing a
// missing or dangling link on the way.
func (s *notebookService) ensureLinked(ctx context.Context, entry *types.NotebookEntry) (uuid.UUID, error) {
	if entry.ReviewRecordID != nil {
		if _, err := s.reviews.GetByID(ctx, *entry.ReviewRecordID); err == nil {
			return *entry.ReviewRecordID, nil
		} else if !errors.Is(err, pkgerrors.ErrNotFound) {
			return uuid.Nil, err
		}
		// Dangling link: the record is gone, fall through and re-link.
	}
	if err := s.linkEntry(ctx, entry); err != nil {
		return uuid.Nil, err
	}
	return *entry.ReviewRecordID, nil
}

// linkEntry finds or creates the review record for the entry's question and
// persists the back-reference onto the entry row.
func (s *notebookService) linkEntry(ctx context.Context, entry *types.NotebookEntry) error {
	record, err := s.reviews.GetByContentKey(ctx, entry.UserID, entry.QuestionID, types.ContentTypeQuestion)
	if err != nil {
		return fmt.Errorf("lookup review record: %w", err)
	}
	if record == nil {
		wrong := false
		record, err = s.reviews.Create(ctx, nil, CreateReviewRecordInput{
			UserID:                entry.UserID,
			ContentID:             entry.QuestionID,
			ContentType:           types.ContentTypeQuestion,
			OriginalAnswerCorrect: &wrong,
		})
		if errors.Is(err, pkgerrors.ErrAlreadyExists) {
			// Lost a create race; the winner's record serves.
			record, err = s.reviews.GetByContentKey(ctx, entry.UserID, entry.QuestionID, types.ContentTypeQuestion)
			if err == nil && record == nil {
				err = fmt.Errorf("record vanished after duplicate create")
			}
		}
		if err != nil {
			return fmt.Errorf("create review record: %w", err)
		}
	}

	if err := s.entries.SetReviewRecordID(ctx, nil, entry.ID, &record.ID); err != nil {
		return fmt.Errorf("persist link: %w", err)
	}
	entry.ReviewRecordID = &record.ID
	return nil
}
