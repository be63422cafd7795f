package testutil

import (
	"workflow-board-api/internal/database"
	"workflow-board-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	// A second pool connection to :memory: would open a second, empty
	// database; pin the pool to one connection.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// SeedUser inserts a user with sensible defaults.
func SeedUser(db *gorm.DB, id, name string, role models.UserRole) *models.User {
	u := &models.User{ID: id, Name: name, Email: name + "@example.com", Password: "x", Role: role}
	db.Create(u)
	return u
}

// SeedProject inserts a project owned by ownerID with the given members.
func SeedProject(db *gorm.DB, id, ownerID string, memberIDs ...string) *models.Project {
	p := &models.Project{ID: id, Name: "Project " + id, OwnerID: ownerID}
	db.Create(p)
	for _, m := range memberIDs {
		db.Create(&models.ProjectMember{ProjectID: id, UserID: m})
	}
	return p
}

// SeedTask inserts a task on a project in the given status.
func SeedTask(db *gorm.DB, id, projectID string, status models.TaskStatus) *models.Task {
	t := &models.Task{
		ID:        id,
		Title:     "Task " + id,
		Status:    status,
		Priority:  models.PriorityMedium,
		ProjectID: projectID,
	}
	db.Create(t)
	return t
}
