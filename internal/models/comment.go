package models

import "time"

type Comment struct {
	ID        uint64 `gorm:"primarykey"`
	Text      string `gorm:"type:text;not null"`
	TaskID    uint64 `gorm:"not null;index"`
	UserID    uint64 `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
	Task Task `gorm:"foreignKey:TaskID"`
}
