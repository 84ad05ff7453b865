package policy

import "github.com/ludicboard/ludicboard-api/internal/models"

// Policy decides whether an actor may modify a resource.
type Policy[R any] interface {
	CanEdit(actorID uint64, resource R) bool
	CanDelete(actorID uint64, resource R) bool
}

// TaskAccess is a task as seen by one caller.
type TaskAccess struct {
	Tier      Tier
	ActorRole models.ProjectRole
}

// TaskPolicy grants full edits and deletes to the author only. Assignees may
// move the task along (status, assignees, attachments).
type TaskPolicy struct{}

var _ Policy[TaskAccess] = TaskPolicy{}

// CanEdit allows full edits on the FULL tier only.
func (TaskPolicy) CanEdit(_ uint64, t TaskAccess) bool {
	return t.Tier == TierFull
}

// CanDelete allows deletion on the FULL tier only.
func (TaskPolicy) CanDelete(_ uint64, t TaskAccess) bool {
	return t.Tier == TierFull
}

// CanChangeStatus covers status changes, (un)assignment and attachments.
func (TaskPolicy) CanChangeStatus(_ uint64, t TaskAccess) bool {
	return t.Tier == TierFull || t.Tier == TierPartial
}

// CanComment lets authors and assignees comment, plus every project member
// except viewers.
func (TaskPolicy) CanComment(_ uint64, t TaskAccess) bool {
	switch t.Tier {
	case TierFull, TierPartial:
		return true
	case TierView:
		return t.ActorRole != "" && t.ActorRole != models.RoleViewer
	}
	return false
}

// CommentRef is the part of a comment the policy needs.
type CommentRef struct {
	AuthorID uint64
}

// CommentPolicy is author-only for both edit and delete.
type CommentPolicy struct{}

var _ Policy[CommentRef] = CommentPolicy{}

// CanEdit reports whether actorID wrote the comment.
func (CommentPolicy) CanEdit(actorID uint64, c CommentRef) bool {
	return actorID == c.AuthorID
}

// CanDelete reports whether actorID wrote the comment.
func (CommentPolicy) CanDelete(actorID uint64, c CommentRef) bool {
	return actorID == c.AuthorID
}

// AttachmentRef identifies who uploaded an attachment.
type AttachmentRef struct {
	UploaderID uint64
}

// AttachmentPolicy lets only the uploader remove an attachment.
type AttachmentPolicy struct{}

var _ Policy[AttachmentRef] = AttachmentPolicy{}

// CanEdit reports whether actorID uploaded the attachment.
func (AttachmentPolicy) CanEdit(actorID uint64, a AttachmentRef) bool {
	return actorID == a.UploaderID
}

func (AttachmentPolicy) CanDelete(actorID uint64, a AttachmentRef) bool {
	return actorID == a.UploaderID
}
