package models

type Team struct {
	ID                   uint64  `gorm:"primarykey" json:"teamId"`
	TeamName             string  `gorm:"type:varchar(100);not null" json:"teamName"`
	ProductOwnerUserID   *uint64 `json:"productOwnerUserId,omitempty"`
	ProjectManagerUserID *uint64 `json:"projectManagerUserId,omitempty"`

	// Relations
	ProductOwner   *User `gorm:"foreignKey:ProductOwnerUserID" json:"-"`
	ProjectManager *User `gorm:"foreignKey:ProjectManagerUserID" json:"-"`
}

// ProjectTeam links a team to a project. It plays no part in authorization.
type ProjectTeam struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	TeamID    uint64 `gorm:"not null;index" json:"teamId"`
	ProjectID uint64 `gorm:"not null;index" json:"projectId"`

	Team    Team    `gorm:"foreignKey:TeamID" json:"-"`
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}
