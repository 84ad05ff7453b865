package models

import (
	"time"
)

type User struct {
	ID                uint64    `gorm:"primarykey" json:"userId"`
	Username          string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email             string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash      string    `gorm:"type:varchar(255);not null" json:"-"`
	ProfilePictureURL *string   `gorm:"type:varchar(512)" json:"profilePictureUrl,omitempty"`
	TeamID            *uint64   `gorm:"index" json:"teamId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	// Relations
	AuthoredTasks []Task              `gorm:"foreignKey:AuthorUserID" json:"-"`
	Assignments   []TaskAssignment    `gorm:"foreignKey:UserID" json:"-"`
	Memberships   []ProjectMembership `gorm:"foreignKey:UserID" json:"-"`
}
