package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ludicboard/ludicboard-api/internal/constants"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/events"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/policy"
	"github.com/ludicboard/ludicboard-api/internal/repository"
)

// CommentService manages task comments. Only a comment's author may edit or
// delete it.
type CommentService struct {
	comments   repository.CommentRepository
	taskPolicy policy.TaskPolicy
	policy     policy.CommentPolicy
	events     events.Publisher
	log        *zap.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(comments repository.CommentRepository, publisher events.Publisher, log *zap.Logger) *CommentService {
	return &CommentService{comments: comments, events: publisher, log: log}
}

type CreateCommentInput struct {
	ActorID uint64
	// UserID, when set, must name the caller.
	UserID *uint64
	Text   string
}

func (s *CommentService) Create(ctx context.Context, task *models.Task, access policy.TaskAccess, input CreateCommentInput) (*models.Comment, error) {
	if input.UserID != nil && *input.UserID != input.ActorID {
		return nil, apierrors.Forbidden("userId must match the authenticated user")
	}
	if !s.taskPolicy.CanComment(input.ActorID, access) {
		return nil, apierrors.Forbidden("Viewers cannot comment on tasks")
	}
	text, err := validateCommentText(input.Text)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{TaskID: task.ID, UserID: input.ActorID, Text: text}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apierrors.Internal(err)
	}

	s.log.Info("Comment created", zap.Uint64("comment_id", comment.ID), zap.Uint64("task_id", task.ID))
	s.events.Publish(ctx, events.Event{
		Type:      events.CommentCreated,
		ActorID:   input.ActorID,
		ProjectID: task.ProjectID,
		TaskID:    task.ID,
		CommentID: comment.ID,
	})
	return s.find(ctx, comment.ID)
}

func (s *CommentService) Update(ctx context.Context, actorID, commentID uint64, text string) (*models.Comment, error) {
	comment, err := s.find(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanEdit(actorID, policy.CommentRef{AuthorID: comment.UserID}) {
		return nil, apierrors.Forbidden("Only the comment author can edit this comment")
	}
	text, err = validateCommentText(text)
	if err != nil {
		return nil, err
	}

	if err := s.comments.UpdateText(ctx, commentID, text); err != nil {
		return nil, notFoundOrInternal(err, "Comment not found")
	}

	s.events.Publish(ctx, events.Event{Type: events.CommentUpdated, ActorID: actorID, TaskID: comment.TaskID, CommentID: commentID})
	return s.find(ctx, commentID)
}

func (s *CommentService) Delete(ctx context.Context, actorID, commentID uint64) error {
	comment, err := s.find(ctx, commentID)
	if err != nil {
		return err
	}
	if !s.policy.CanDelete(actorID, policy.CommentRef{AuthorID: comment.UserID}) {
		return apierrors.Forbidden("Only the comment author can delete this comment")
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return notFoundOrInternal(err, "Comment not found")
	}

	s.log.Info("Comment deleted", zap.Uint64("comment_id", commentID), zap.Uint64("actor_id", actorID))
	s.events.Publish(ctx, events.Event{Type: events.CommentDeleted, ActorID: actorID, TaskID: comment.TaskID, CommentID: commentID})
	return nil
}

func (s *CommentService) find(ctx context.Context, id uint64) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "Comment not found")
	}
	return comment, nil
}

func validateCommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apierrors.BadRequest("Comment text is required")
	}
	if len([]rune(text)) > constants.MaxCommentLength {
		return "", apierrors.BadRequest("Comment must be at most 2000 characters")
	}
	return text, nil
}

// AttachmentService records file links on tasks.
type AttachmentService struct {
	attachments repository.AttachmentRepository
	taskPolicy  policy.TaskPolicy
	policy      policy.AttachmentPolicy
	log         *zap.Logger
}

// NewAttachmentService creates a new AttachmentService.
func NewAttachmentService(attachments repository.AttachmentRepository, log *zap.Logger) *AttachmentService {
	return &AttachmentService{attachments: attachments, log: log}
}

type CreateAttachmentInput struct {
	ActorID  uint64
	FileURL  string
	FileName string
}

func (s *AttachmentService) Create(ctx context.Context, task *models.Task, access policy.TaskAccess, input CreateAttachmentInput) (*models.Attachment, error) {
	if !s.taskPolicy.CanChangeStatus(input.ActorID, access) {
		return nil, apierrors.Forbidden("Only the task author or an assignee can add attachments")
	}
	url := strings.TrimSpace(input.FileURL)
	name := strings.TrimSpace(input.FileName)
	if url == "" || name == "" {
		return nil, apierrors.BadRequest("fileURL and fileName are required")
	}

	attachment := &models.Attachment{
		TaskID:       task.ID,
		UploadedByID: input.ActorID,
		FileURL:      url,
		FileName:     name,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, apierrors.Internal(err)
	}

	s.log.Info("Attachment added", zap.Uint64("attachment_id", attachment.ID), zap.Uint64("task_id", task.ID))
	return attachment, nil
}

func (s *AttachmentService) Delete(ctx context.Context, actorID, attachmentID uint64) error {
	attachment, err := s.attachments.FindByID(ctx, attachmentID)
	if err != nil {
		return notFoundOrInternal(err, "Attachment not found")
	}
	if !s.policy.CanDelete(actorID, policy.AttachmentRef{UploaderID: attachment.UploadedByID}) {
		return apierrors.Forbidden("Only the uploader can delete this attachment")
	}

	if err := s.attachments.Delete(ctx, attachmentID); err != nil {
		return notFoundOrInternal(err, "Attachment not found")
	}

	s.log.Info("Attachment deleted", zap.Uint64("attachment_id", attachmentID))
	return nil
}

func notFoundOrInternal(err error, message string) error {
	if repository.IsNotFound(err) {
		return apierrors.NotFound(message)
	}
	return apierrors.Internal(err)
}
