package models

import "time"

type Attachment struct {
	ID           uint64 `gorm:"primarykey"`
	FileURL      string `gorm:"type:varchar(1024);not null"`
	FileName     string `gorm:"type:varchar(255);not null"`
	TaskID       uint64 `gorm:"not null;index"`
	UploadedByID uint64 `gorm:"not null;index"`
	CreatedAt    time.Time

	Task       Task `gorm:"foreignKey:TaskID"`
	UploadedBy User `gorm:"foreignKey:UploadedByID"`
}
