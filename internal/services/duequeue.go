package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mentorly/mentorly-backend/internal/data/repos/review"
	types "github.com/mentorly/mentorly-backend/internal/domain"
	pkgerrors "github.com/mentorly/mentorly-backend/internal/pkg/errors"
	"github.com/mentorly/mentorly-backend/internal/platform/logger"
)

// maxDueScan caps one storage scan window. Weak-topic prioritization applies
// within the first window; a backlog past it keeps paging through in base
// (next_review_at, id) order via keyset continuation.
const maxDueScan = 1000

const defaultDueLimit = 20

type DueReviewsOptions struct {
	ContentType string
	DeckID      *uuid.UUID
	Limit       int
	Cursor      string
	Prioritize  bool
}

// NewDueReviewsOptions returns the option defaults: a 20-item page with
// weak-topic prioritization on.
func NewDueReviewsOptions() DueReviewsOptions {
	return DueReviewsOptions{Limit: defaultDueLimit, Prioritize: true}
}

// DueQueueService builds the ordered, paginated queue of due review records
// for one user.
type DueQueueService interface {
	DueReviews(ctx context.Context, userID uuid.UUID, opts DueReviewsOptions) ([]*types.ReviewRecord, string, error)
}

type dueQueueService struct {
	db          *gorm.DB
	log         *logger.Logger
	records     review.ReviewRecordRepo
	performance UserPerformanceStore
	lookup      ContentLookup
}

func NewDueQueueService(db *gorm.DB, baseLog *logger.Logger, records review.ReviewRecordRepo, performance UserPerformanceStore, lookup ContentLookup) DueQueueService {
	return &dueQueueService{
		db:          db,
		log:         baseLog.With("service", "DueQueueService"),
		records:     records,
		performance: performance,
		lookup:      lookup,
	}
}

// dueCursor is the composite sort key (rank, next_review_at, id) of the last
// item on the previous page. Sorting on the full key up front, before any
// pagination, keeps page boundaries stable under prioritization.
type dueCursor struct {
	Rank         int       `json:"r"`
	NextReviewAt time.Time `json:"t"`
	ID           uuid.UUID `json:"id"`
}

func (s *dueQueueService) DueReviews(ctx context.Context, userID uuid.UUID, opts DueReviewsOptions) ([]*types.ReviewRecord, string, error) {
	if userID == uuid.Nil {
		return nil, "", fmt.Errorf("%w: missing user id", pkgerrors.ErrInvalidArgument)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultDueLimit
	}

	var cursor *dueCursor
	if opts.Cursor != "" {
		c, err := decodeDueCursor(opts.Cursor)
		if err != nil {
			return nil, "", fmt.Errorf("%w: bad cursor", pkgerrors.ErrInvalidArgument)
		}
		cursor = c
	}

	now := time.Now().UTC()
	due, err := s.records.ListDue(ctx, nil, userID, now, review.DueFilter{
		ContentType: opts.ContentType,
		DeckID:      opts.DeckID,
		Limit:       maxDueScan,
	})
	if err != nil {
		return nil, "", fmt.Errorf("list due records: %w", err)
	}

	prioritized, err := s.prioritizedContentIDs(ctx, userID, opts)
	if err != nil {
		// The queue still works without the weak-topic signal.
		s.log.Warn("prioritization unavailable, using base order", "user_id", userID, "error", err)
		prioritized = nil
	}

	// ListDue returns (next_review_at, id) ascending, so a stable partition
	// by rank yields the full (rank, next_review_at, id) composite order.
	ordered := make([]*types.ReviewRecord, 0, len(due))
	for _, r := range due {
		if dueRank(r, prioritized) == 0 {
			ordered = append(ordered, r)
		}
	}
	for _, r := range due {
		if dueRank(r, prioritized) != 0 {
			ordered = append(ordered, r)
		}
	}

	page := make([]*types.ReviewRecord, 0, limit)
	keys := make([]dueCursor, 0, limit)
	more := false

	for _, r := range ordered {
		key := dueKey(r, prioritized)
		if cursor != nil && compareDueKeys(key, *cursor) <= 0 {
			continue
		}
		if len(page) == limit {
			more = true
			break
		}
		page = append(page, r)
		keys = append(keys, key)
	}

	// A full window may hide more due records. Keep scanning in base order;
	// records past the first window never jump the queue, so their composite
	// keys stay monotone and the cursor stays valid.
	if len(due) == maxDueScan {
		last := due[len(due)-1]
		for !more {
			window, err := s.records.ListDue(ctx, nil, userID, now, review.DueFilter{
				ContentType:       opts.ContentType,
				DeckID:            opts.DeckID,
				AfterNextReviewAt: &last.NextReviewAt,
				AfterID:           &last.ID,
				Limit:             maxDueScan,
			})
			if err != nil {
				return nil, "", fmt.Errorf("list due records: %w", err)
			}
			if len(window) == 0 {
				break
			}
			for _, r := range window {
				key := dueCursor{Rank: 1, NextReviewAt: r.NextReviewAt, ID: r.ID}
				if cursor != nil && compareDueKeys(key, *cursor) <= 0 {
					continue
				}
				if len(page) == limit {
					more = true
					break
				}
				page = append(page, r)
				keys = append(keys, key)
			}
			if len(window) < maxDueScan {
				break
			}
			last = window[len(window)-1]
		}
	}

	nextCursor := ""
	if more && len(page) > 0 {
		nextCursor = encodeDueCursor(keys[len(keys)-1])
	}
	return page, nextCursor, nil
}

func (s *dueQueueService) prioritizedContentIDs(ctx context.Context, userID uuid.UUID, opts DueReviewsOptions) (map[uuid.UUID]bool, error) {
	if !opts.Prioritize || s.performance == nil || s.lookup == nil {
		return nil, nil
	}
	topics, err := s.performance.GetWeakestTopics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("weakest topics: %w", err)
	}
	if len(topics) == 0 {
		return nil, nil
	}
	ids, err := s.lookup.FindContentIDsByTopics(ctx, topics, types.ContentTypeQuestion)
	if err != nil {
		return nil, fmt.Errorf("resolve topic content: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// dueRank is 0 for weak-topic questions and 1 for everything else; lower
// sorts first.
func dueRank(r *types.ReviewRecord, prioritized map[uuid.UUID]bool) int {
	if r.ContentType == types.ContentTypeQuestion && prioritized[r.ContentID] {
		return 0
	}
	return 1
}

func dueKey(r *types.ReviewRecord, prioritized map[uuid.UUID]bool) dueCursor {
	return dueCursor{
		Rank:         dueRank(r, prioritized),
		NextReviewAt: r.NextReviewAt,
		ID:           r.ID,
	}
}

func compareDueKeys(a, b dueCursor) int {
	if a.Rank != b.Rank {
		if a.Rank < b.Rank {
			return -1
		}
		return 1
	}
	if !a.NextReviewAt.Equal(b.NextReviewAt) {
		if a.NextReviewAt.Before(b.NextReviewAt) {
			return -1
		}
		return 1
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

func encodeDueCursor(c dueCursor) string {
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeDueCursor(s string) (*dueCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	var c dueCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
