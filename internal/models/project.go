package models

import (
	"time"
)

// Project groups tasks and participants; owner plus members define the access set.
type Project struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	OwnerID     string          `json:"owner" gorm:"column:owner_id;index;not null"`
	Members     []ProjectMember `json:"members" gorm:"foreignKey:ProjectID"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for Project Model
func (Project) TableName() string {
	return "projects"
}

// ProjectMember is one membership row; the owner is never duplicated here.
type ProjectMember struct {
	ProjectID string    `json:"-" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for ProjectMember Model
func (ProjectMember) TableName() string {
	return "project_members"
}

// IsOwner reports whether userID owns the project.
func (p *Project) IsOwner(userID string) bool {
	return p.OwnerID == userID
}

// IsMember reports whether userID appears in the member set (owner excluded).
func (p *Project) IsMember(userID string) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// HasParticipant reports whether userID is the owner or a member.
func (p *Project) HasParticipant(userID string) bool {
	return p.IsOwner(userID) || p.IsMember(userID)
}
