package main

import (
	"fmt"
	"os"

	"github.com/mentorly/mentorly-backend/internal/data/db"
	"github.com/mentorly/mentorly-backend/internal/platform/envutil"
	"github.com/mentorly/mentorly-backend/internal/platform/logger"
)

func main() {
	logg, err := logger.New(envutil.Str("LOG_MODE", "dev"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer logg.Sync()

	pg, err := db.NewPostgresService(logg)
	if err != nil {
		logg.Fatal("connect postgres", "error", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		logg.Fatal("run migrations", "error", err)
	}
	logg.Info("migrations applied")
}
