package models

import (
	"time"

	"gorm.io/datatypes"
)

type TaskStatus string

const (
	TaskStatusToDo           TaskStatus = "To Do"
	TaskStatusWorkInProgress TaskStatus = "Work In Progress"
	TaskStatusUnderReview    TaskStatus = "Under Review"
	TaskStatusCompleted      TaskStatus = "Completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusWorkInProgress, TaskStatusUnderReview, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityUrgent  TaskPriority = "Urgent"
	PriorityHigh    TaskPriority = "High"
	PriorityMedium  TaskPriority = "Medium"
	PriorityLow     TaskPriority = "Low"
	PriorityBacklog TaskPriority = "Backlog"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityBacklog:
		return true
	}
	return false
}

type Task struct {
	ID           uint64                      `gorm:"primarykey"`
	Title        string                      `gorm:"type:varchar(255);not null"`
	Description  string                      `gorm:"type:text"`
	Status       TaskStatus                  `gorm:"type:varchar(32);not null;default:'To Do';index"`
	Priority     TaskPriority                `gorm:"type:varchar(16);not null;default:'Backlog'"`
	Tags         datatypes.JSONSlice[string] `gorm:"type:json"`
	StartDate    *time.Time
	DueDate      *time.Time `gorm:"index"`
	Points       *int
	ProjectID    uint64 `gorm:"not null;index"`
	AuthorUserID uint64 `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Relations
	Project     Project          `gorm:"foreignKey:ProjectID"`
	Author      User             `gorm:"foreignKey:AuthorUserID"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID"`
	Comments    []Comment        `gorm:"foreignKey:TaskID"`
	Attachments []Attachment     `gorm:"foreignKey:TaskID"`
}

// AssigneeIDs returns the ids of the assigned users.
func (t *Task) AssigneeIDs() []uint64 {
	ids := make([]uint64, 0, len(t.Assignments))
	for _, a := range t.Assignments {
		ids = append(ids, a.UserID)
	}
	return ids
}
