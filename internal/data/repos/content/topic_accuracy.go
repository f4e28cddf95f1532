package content

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/mentorly/mentorly-backend/internal/domain"
	"github.com/mentorly/mentorly-backend/internal/platform/logger"
)

type TopicAccuracyRepo interface {
	// IncrementCounters upserts the (user, topic) row and bumps its
	// counters atomically in the database.
	IncrementCounters(ctx context.Context, tx *gorm.DB, userID uuid.UUID, topic string, correct bool) error
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TopicAccuracy, error)
	// ListWeakest returns the user's lowest-accuracy topics, worst first.
	// Topics with fewer than minAttempts answers are left out so a single
	// early miss does not dominate the ranking.
	ListWeakest(ctx context.Context, tx *gorm.DB, userID uuid.UUID, minAttempts, limit int) ([]string, error)
}

type topicAccuracyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicAccuracyRepo(db *gorm.DB, baseLog *logger.Logger) TopicAccuracyRepo {
	return &topicAccuracyRepo{db: db, log: baseLog.With("repo", "TopicAccuracyRepo")}
}

func (r *topicAccuracyRepo) IncrementCounters(ctx context.Context, tx *gorm.DB, userID uuid.UUID, topic string, correct bool) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || topic == "" {
		return nil
	}
	inc := 0
	if correct {
		inc = 1
	}
	row := &types.TopicAccuracy{
		ID:      uuid.New(),
		UserID:  userID,
		Topic:   topic,
		Correct: inc,
		Total:   1,
	}
	if err := t.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "topic"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"correct":    gorm.Expr("topic_accuracy.correct + ?", inc),
			"total":      gorm.Expr("topic_accuracy.total + 1"),
			"updated_at": gorm.Expr("now()"),
		}),
	}).Create(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *topicAccuracyRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TopicAccuracy, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.TopicAccuracy
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicAccuracyRepo) ListWeakest(ctx context.Context, tx *gorm.DB, userID uuid.UUID, minAttempts, limit int) ([]string, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var topics []string
	if userID == uuid.Nil {
		return topics, nil
	}
	if minAttempts < 1 {
		minAttempts = 1
	}
	if limit <= 0 {
		limit = 5
	}
	if err := t.WithContext(ctx).
		Model(&types.TopicAccuracy{}).
		Where("user_id = ? AND total >= ?", userID, minAttempts).
		Order("(correct::float / total) ASC, total DESC, topic ASC").
		Limit(limit).
		Pluck("topic", &topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}
