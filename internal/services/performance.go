package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/mentorly/mentorly-backend/internal/clients/redis"
	"github.com/mentorly/mentorly-backend/internal/data/repos/content"
	types "github.com/mentorly/mentorly-backend/internal/domain"
	"github.com/mentorly/mentorly-backend/internal/platform/envutil"
	"github.com/mentorly/mentorly-backend/internal/platform/logger"
)

// UserPerformanceStore is the due-queue builder's view of per-user topic
// accuracy: a ranked list of weakest topics, possibly empty.
type UserPerformanceStore interface {
	GetWeakestTopics(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// ContentLookup resolves which content ids of one type carry the given
// topic tags.
type ContentLookup interface {
	FindContentIDsByTopics(ctx context.Context, topics []string, contentType string) ([]uuid.UUID, error)
}

// PerformanceService both serves weakest-topic rankings and ingests answer
// outcomes that move them.
type PerformanceService interface {
	UserPerformanceStore
	RecordAnswer(ctx context.Context, tx *gorm.DB, userID uuid.UUID, topic string, correct bool) error
}

type performanceService struct {
	db       *gorm.DB
	log      *logger.Logger
	accuracy content.TopicAccuracyRepo
	// cache may be nil; every path falls through to the store.
	cache redisclient.WeakTopicCache

	minAttempts int
	maxTopics   int
}

func NewPerformanceService(db *gorm.DB, baseLog *logger.Logger, accuracy content.TopicAccuracyRepo, cache redisclient.WeakTopicCache) PerformanceService {
	return &performanceService{
		db:          db,
		log:         baseLog.With("service", "PerformanceService"),
		accuracy:    accuracy,
		cache:       cache,
		minAttempts: envutil.Int("WEAK_TOPIC_MIN_ATTEMPTS", 3),
		maxTopics:   envutil.Int("WEAK_TOPIC_LIMIT", 5),
	}
}

func (s *performanceService) GetWeakestTopics(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if userID == uuid.Nil {
		return nil, nil
	}

	if s.cache != nil {
		topics, hit, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.log.Warn("weak-topic cache read failed", "user_id", userID, "error", err)
		} else if hit {
			return topics, nil
		}
	}

	topics, err := s.accuracy.ListWeakest(ctx, nil, userID, s.minAttempts, s.maxTopics)
	if err != nil {
		return nil, fmt.Errorf("list weakest topics: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, topics); err != nil {
			s.log.Warn("weak-topic cache write failed", "user_id", userID, "error", err)
		}
	}
	return topics, nil
}

func (s *performanceService) RecordAnswer(ctx context.Context, tx *gorm.DB, userID uuid.UUID, topic string, correct bool) error {
	if err := s.accuracy.IncrementCounters(ctx, tx, userID, topic, correct); err != nil {
		return fmt.Errorf("increment topic counters: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.log.Warn("weak-topic cache invalidate failed", "user_id", userID, "error", err)
		}
	}
	return nil
}

type contentLookup struct {
	log       *logger.Logger
	questions content.QuestionRepo
}

// NewContentLookup resolves question ids by topic. Other content types have
// no topic index and resolve to nothing.
func NewContentLookup(baseLog *logger.Logger, questions content.QuestionRepo) ContentLookup {
	return &contentLookup{
		log:       baseLog.With("service", "ContentLookup"),
		questions: questions,
	}
}

func (c *contentLookup) FindContentIDsByTopics(ctx context.Context, topics []string, contentType string) ([]uuid.UUID, error) {
	if len(topics) == 0 || contentType != types.ContentTypeQuestion {
		return nil, nil
	}
	return c.questions.ListIDsByTopics(ctx, nil, topics)
}
