package dto

import (
	"time"

	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/utils"
)

// UserDTO is the public view of a user.
type UserDTO struct {
	UserID            uint64  `json:"userId"`
	Username          string  `json:"username"`
	Email             string  `json:"email,omitempty"`
	ProfilePictureURL *string `json:"profilePictureUrl,omitempty"`
	TeamID            *uint64 `json:"teamId,omitempty"`
}

// AuthResponse is returned by register, login and profile changes.
type AuthResponse struct {
	UserDTO
	Token string `json:"token"`
}

type TeamDTO struct {
	TeamID                 uint64  `json:"teamId"`
	TeamName               string  `json:"teamName"`
	ProductOwnerUserID     *uint64 `json:"productOwnerUserId,omitempty"`
	ProjectManagerUserID   *uint64 `json:"projectManagerUserId,omitempty"`
	ProductOwnerUsername   *string `json:"productOwnerUsername,omitempty"`
	ProjectManagerUsername *string `json:"projectManagerUsername,omitempty"`
}

type UserListResponse struct {
	Users      []UserDTO                `json:"users"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username          *string `json:"username" binding:"omitempty,min=3,max=50"`
	ProfilePictureURL *string `json:"profilePictureUrl" binding:"omitempty,max=512"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		UserID:            user.ID,
		Username:          user.Username,
		Email:             user.Email,
		ProfilePictureURL: user.ProfilePictureURL,
		TeamID:            user.TeamID,
	}
}

// ToPublicUserDTO drops the email, for users embedded in other resources.
func ToPublicUserDTO(user models.User) UserDTO {
	return UserDTO{
		UserID:            user.ID,
		Username:          user.Username,
		ProfilePictureURL: user.ProfilePictureURL,
	}
}

func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserDTO(u))
	}
	return out
}

func ToTeamDTO(team models.Team) TeamDTO {
	out := TeamDTO{
		TeamID:               team.ID,
		TeamName:             team.TeamName,
		ProductOwnerUserID:   team.ProductOwnerUserID,
		ProjectManagerUserID: team.ProjectManagerUserID,
	}
	if team.ProductOwner != nil {
		out.ProductOwnerUsername = &team.ProductOwner.Username
	}
	if team.ProjectManager != nil {
		out.ProjectManagerUsername = &team.ProjectManager.Username
	}
	return out
}

// timeOrNil keeps zero timestamps out of responses.
func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
