package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ludicboard/ludicboard-api/internal/dto"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/middleware"
	"github.com/ludicboard/ludicboard-api/internal/services"
)

// CommentHandler serves comments and attachments on tasks.
type CommentHandler struct {
	comments    *services.CommentService
	attachments *services.AttachmentService
}

func NewCommentHandler(comments *services.CommentService, attachments *services.AttachmentService) *CommentHandler {
	return &CommentHandler{comments: comments, attachments: attachments}
}

// CreateComment posts a comment on the task loaded by RequireTaskAccess.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	task, access, ok := taskAccess(c)
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), task, access, services.CreateCommentInput{
		ActorID: actorID(c),
		UserID:  req.UserID,
		Text:    req.Text,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// UpdateComment edits a comment. Author only.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, err := middleware.ParseID(c, "commentId")
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	var req dto.UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), userID, commentID, req.Text)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment. Author only.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, err := middleware.ParseID(c, "commentId")
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	if err := h.comments.Delete(c.Request.Context(), userID, commentID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, message("Comment deleted successfully"))
}

func (h *CommentHandler) CreateAttachment(c *gin.Context) {
	task, access, ok := taskAccess(c)
	if !ok {
		return
	}
	var req dto.CreateAttachmentRequest
	if !bindJSON(c, &req) {
		return
	}

	attachment, err := h.attachments.Create(c.Request.Context(), task, access, services.CreateAttachmentInput{
		ActorID:  actorID(c),
		FileURL:  req.FileURL,
		FileName: req.FileName,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAttachmentDTO(*attachment))
}

// DeleteAttachment removes an attachment. Uploader only.
func (h *CommentHandler) DeleteAttachment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	attachmentID, err := middleware.ParseID(c, "attachmentId")
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	if err := h.attachments.Delete(c.Request.Context(), userID, attachmentID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, message("Attachment deleted successfully"))
}
