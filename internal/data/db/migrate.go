package db

import (
	types "github.com/mentorly/mentorly-backend/internal/domain"
)

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Question{},
		&types.ReviewRecord{},
		&types.Flashcard{},
		&types.FlashcardReviewLog{},
		&types.NotebookEntry{},
		&types.TopicAccuracy{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}
