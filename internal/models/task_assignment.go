package models

import (
	"time"
)

// TaskAssignment is the only stored record of who a task is assigned to.
type TaskAssignment struct {
	TaskID    uint64 `gorm:"primarykey"`
	UserID    uint64 `gorm:"primarykey;index"`
	CreatedAt time.Time

	// Relations
	Task Task `gorm:"foreignKey:TaskID"`
	User User `gorm:"foreignKey:UserID"`
}
