package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"workflow-board-api/internal/access"
	"workflow-board-api/internal/activity"
	"workflow-board-api/internal/database"
	"workflow-board-api/internal/handlers"
	"workflow-board-api/internal/realtime"
	"workflow-board-api/internal/routes"
	"workflow-board-api/internal/service"
	"workflow-board-api/internal/store"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	db, err := database.Open(getEnv("DB_PATH", "workflow-board.db"))
	if err != nil {
		logrus.WithError(err).Fatal("failed to open database")
	}

	// Explicit wiring: the hub is constructed here and handed to whoever
	// publishes; nothing reaches for a package-level instance.
	st := store.New(db)
	guard := access.NewGuard(st)
	hub := realtime.NewHub(guard)
	timeline := activity.NewTimeline(st)
	tasks := service.NewTaskService(st, guard, hub)
	projects := service.NewProjectService(st, guard)

	api := handlers.New(st, guard, tasks, projects, timeline, hub)
	router := routes.Setup(api)

	port := ":" + getEnv("PORT", "8008")
	logrus.WithField("port", port).Info("server starting")
	if err := router.Run(port); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
