package dto

import (
	"time"

	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/services"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	TaskID          uint64              `json:"taskId"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Status          models.TaskStatus   `json:"status"`
	Priority        models.TaskPriority `json:"priority"`
	Tags            []string            `json:"tags"`
	StartDate       *time.Time          `json:"startDate"`
	DueDate         *time.Time          `json:"dueDate"`
	Points          *int                `json:"points"`
	ProjectID       uint64              `json:"projectId"`
	AuthorUserID    uint64              `json:"authorUserId"`
	AssignedUserID  *uint64             `json:"assignedUserId"`
	AssignedUserIDs []uint64            `json:"assignedUserIds"`
	CreatedAt       *time.Time          `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time          `json:"updatedAt,omitempty"`
	Author          *UserDTO            `json:"author,omitempty"`
	Assignees       []UserDTO           `json:"assignees"`
	Comments        []CommentDTO        `json:"comments"`
	Attachments     []AttachmentDTO     `json:"attachments"`
}

type CommentDTO struct {
	ID        uint64     `json:"id"`
	Text      string     `json:"text"`
	TaskID    uint64     `json:"taskId"`
	UserID    uint64     `json:"userId"`
	User      *UserDTO   `json:"user,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type AttachmentDTO struct {
	ID           uint64     `json:"id"`
	FileURL      string     `json:"fileURL"`
	FileName     string     `json:"fileName"`
	TaskID       uint64     `json:"taskId"`
	UploadedByID uint64     `json:"uploadedById"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

type CreateTaskRequest struct {
	Title           string              `json:"title" binding:"required,max=255"`
	ProjectID       uint64              `json:"projectId" binding:"required"`
	Description     string              `json:"description"`
	Status          models.TaskStatus   `json:"status" binding:"omitempty,taskstatus"`
	Priority        models.TaskPriority `json:"priority" binding:"omitempty,taskpriority"`
	Tags            []string            `json:"tags"`
	StartDate       *time.Time          `json:"startDate"`
	DueDate         *time.Time          `json:"dueDate"`
	Points          *int                `json:"points" binding:"omitempty,min=0"`
	AuthorUserID    *uint64             `json:"authorUserId"`
	AssignedUserID  *uint64             `json:"assignedUserId"`
	AssignedUserIDs []uint64            `json:"assignedUserIds"`
}

// UpdateTaskRequest is a partial update; absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title           *string              `json:"title" binding:"omitempty,max=255"`
	Description     *string              `json:"description"`
	Status          *models.TaskStatus   `json:"status" binding:"omitempty,taskstatus"`
	Priority        *models.TaskPriority `json:"priority" binding:"omitempty,taskpriority"`
	Tags            *[]string            `json:"tags"`
	StartDate       *time.Time           `json:"startDate"`
	DueDate         *time.Time           `json:"dueDate"`
	ClearDueDate    bool                 `json:"clearDueDate"`
	Points          *int                 `json:"points" binding:"omitempty,min=0"`
	AssignedUserID  *uint64              `json:"assignedUserId"`
	AssignedUserIDs *[]uint64            `json:"assignedUserIds"`
}

type UpdateTaskStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required,taskstatus"`
}

type AssignUsersRequest struct {
	UserIDs []uint64 `json:"userIds" binding:"required,min=1"`
}

type GenerateTasksRequest struct {
	Text      string `json:"text" binding:"required"`
	ProjectID uint64 `json:"projectId" binding:"required"`
}

type CreateCommentRequest struct {
	Text   string  `json:"text" binding:"required,max=2000"`
	UserID *uint64 `json:"userId"`
}

type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

type CreateAttachmentRequest struct {
	FileURL  string `json:"fileURL" binding:"required,max=1024"`
	FileName string `json:"fileName" binding:"required,max=255"`
}

// ToTaskDTO converts a Task model to TaskDTO. assignedUserId is the lowest
// assignee id, or null.
func ToTaskDTO(task models.Task) TaskDTO {
	ids := task.AssigneeIDs()
	out := TaskDTO{
		TaskID:          task.ID,
		Title:           task.Title,
		Description:     task.Description,
		Status:          task.Status,
		Priority:        task.Priority,
		Tags:            []string(task.Tags),
		StartDate:       task.StartDate,
		DueDate:         task.DueDate,
		Points:          task.Points,
		ProjectID:       task.ProjectID,
		AuthorUserID:    task.AuthorUserID,
		AssignedUserIDs: ids,
		CreatedAt:       timeOrNil(task.CreatedAt),
		UpdatedAt:       timeOrNil(task.UpdatedAt),
		Assignees:       []UserDTO{},
		Comments:        []CommentDTO{},
		Attachments:     []AttachmentDTO{},
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	for _, id := range ids {
		if out.AssignedUserID == nil || id < *out.AssignedUserID {
			id := id
			out.AssignedUserID = &id
		}
	}

	if task.Author.ID != 0 {
		author := ToPublicUserDTO(task.Author)
		out.Author = &author
	}
	for _, a := range task.Assignments {
		if a.User.ID != 0 {
			out.Assignees = append(out.Assignees, ToPublicUserDTO(a.User))
		}
	}
	for _, c := range task.Comments {
		out.Comments = append(out.Comments, ToCommentDTO(c))
	}
	for _, a := range task.Attachments {
		out.Attachments = append(out.Attachments, ToAttachmentDTO(a))
	}
	return out
}

func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskDTO(t))
	}
	return out
}

func ToCommentDTO(comment models.Comment) CommentDTO {
	out := CommentDTO{
		ID:        comment.ID,
		Text:      comment.Text,
		TaskID:    comment.TaskID,
		UserID:    comment.UserID,
		CreatedAt: timeOrNil(comment.CreatedAt),
		UpdatedAt: timeOrNil(comment.UpdatedAt),
	}
	if comment.User.ID != 0 {
		user := ToPublicUserDTO(comment.User)
		out.User = &user
	}
	return out
}

func ToAttachmentDTO(a models.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:           a.ID,
		FileURL:      a.FileURL,
		FileName:     a.FileName,
		TaskID:       a.TaskID,
		UploadedByID: a.UploadedByID,
		CreatedAt:    timeOrNil(a.CreatedAt),
	}
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Tasks    []TaskDTO    `json:"tasks"`
	Projects []ProjectDTO `json:"projects"`
	Users    []UserDTO    `json:"users"`
}

func ToSearchResponse(results *services.SearchResults) SearchResponse {
	users := make([]UserDTO, 0, len(results.Users))
	for _, u := range results.Users {
		users = append(users, ToPublicUserDTO(u))
	}
	return SearchResponse{
		Tasks:    ToTaskDTOs(results.Tasks),
		Projects: ToProjectList(results.Projects),
		Users:    users,
	}
}

// ToCreateTaskInput maps the request body onto the service input.
func (r CreateTaskRequest) ToCreateTaskInput(actorID uint64) services.CreateTaskInput {
	return services.CreateTaskInput{
		ActorID:         actorID,
		ProjectID:       r.ProjectID,
		Title:           r.Title,
		Description:     r.Description,
		Status:          r.Status,
		Priority:        r.Priority,
		Tags:            r.Tags,
		StartDate:       r.StartDate,
		DueDate:         r.DueDate,
		Points:          r.Points,
		AuthorUserID:    r.AuthorUserID,
		AssignedUserID:  r.AssignedUserID,
		AssignedUserIDs: r.AssignedUserIDs,
	}
}

func (r UpdateTaskRequest) ToUpdateTaskInput() services.UpdateTaskInput {
	return services.UpdateTaskInput{
		Title:           r.Title,
		Description:     r.Description,
		Status:          r.Status,
		Priority:        r.Priority,
		Tags:            r.Tags,
		StartDate:       r.StartDate,
		DueDate:         r.DueDate,
		ClearDueDate:    r.ClearDueDate,
		Points:          r.Points,
		AssignedUserID:  r.AssignedUserID,
		AssignedUserIDs: r.AssignedUserIDs,
	}
}
