package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/mentorly/mentorly-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, topic string) *types.Question {
	tb.Helper()
	q := &types.Question{
		ID:      uuid.New(),
		Topic:   topic,
		Prompt:  "prompt",
		Choices: datatypes.JSON([]byte(`["a","b","c","d"]`)),
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

func SeedReviewRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID, contentType string, nextReviewAt time.Time) *types.ReviewRecord {
	tb.Helper()
	r := &types.ReviewRecord{
		ID:           uuid.New(),
		UserID:       userID,
		ContentID:    contentID,
		ContentType:  contentType,
		EaseFactor:   2.5,
		IntervalDays: 1,
		Status:       "learning",
		NextReviewAt: nextReviewAt,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed review record: %v", err)
	}
	return r
}

func SeedFlashcard(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.Flashcard {
	tb.Helper()
	f := &types.Flashcard{
		ID:           uuid.New(),
		UserID:       userID,
		Front:        "front",
		Back:         "back",
		Media:        datatypes.JSON([]byte(`[]`)),
		Tags:         datatypes.JSON([]byte(`[]`)),
		EaseFactor:   2.5,
		IntervalDays: 1,
		Status:       "learning",
		NextReviewAt: time.Now().UTC().AddDate(0, 0, 1),
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed flashcard: %v", err)
	}
	return f
}

func SeedNotebookEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, questionID uuid.UUID, topic string) *types.NotebookEntry {
	tb.Helper()
	e := &types.NotebookEntry{
		ID:            uuid.New(),
		UserID:        userID,
		QuestionID:    questionID,
		Topic:         topic,
		WrongAnswer:   "b",
		CorrectAnswer: "a",
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed notebook entry: %v", err)
	}
	return e
}
