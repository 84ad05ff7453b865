package dto

import (
	"time"

	"github.com/ludicboard/ludicboard-api/internal/models"
)

type ProjectDTO struct {
	ProjectID   uint64             `json:"projectId"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	StartDate   *time.Time         `json:"startDate"`
	EndDate     *time.Time         `json:"endDate"`
	CreatedAt   *time.Time         `json:"createdAt,omitempty"`
	Role        models.ProjectRole `json:"role,omitempty"`
}

type MemberDTO struct {
	UserID   uint64             `json:"userId"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
	Role     models.ProjectRole `json:"role"`
	JoinedAt *time.Time         `json:"joinedAt,omitempty"`
}

// ProjectDetailDTO is the single-project view.
type ProjectDetailDTO struct {
	ProjectDTO
	Members  []MemberDTO        `json:"members"`
	YourRole models.ProjectRole `json:"yourRole"`
}

type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required,min=3,max=50"`
	Description string     `json:"description" binding:"max=500"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	TeamID      *uint64    `json:"teamId"`
}

type AddMemberRequest struct {
	UserID uint64             `json:"userId" binding:"required"`
	Role   models.ProjectRole `json:"role" binding:"required,projectrole"`
}

type UpdateMemberRoleRequest struct {
	Role models.ProjectRole `json:"role" binding:"required,projectrole"`
}

func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ProjectID:   project.ID,
		Name:        project.Name,
		Description: project.Description,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		CreatedAt:   timeOrNil(project.CreatedAt),
	}
}

// ToProjectDTOs renders the caller's memberships as projects carrying the role.
func ToProjectDTOs(memberships []models.ProjectMembership) []ProjectDTO {
	out := make([]ProjectDTO, 0, len(memberships))
	for _, m := range memberships {
		p := ToProjectDTO(m.Project)
		p.Role = m.Role
		out = append(out, p)
	}
	return out
}

func ToProjectList(projects []models.Project) []ProjectDTO {
	out := make([]ProjectDTO, 0, len(projects))
	for _, p := range projects {
		out = append(out, ToProjectDTO(p))
	}
	return out
}

func ToMemberDTO(m models.ProjectMembership) MemberDTO {
	return MemberDTO{
		UserID:   m.UserID,
		Username: m.User.Username,
		Email:    m.User.Email,
		Role:     m.Role,
		JoinedAt: timeOrNil(m.JoinedAt),
	}
}

func ToMemberDTOs(members []models.ProjectMembership) []MemberDTO {
	out := make([]MemberDTO, 0, len(members))
	for _, m := range members {
		out = append(out, ToMemberDTO(m))
	}
	return out
}
