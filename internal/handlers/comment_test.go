package handlers_test

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ludicboard/ludicboard-api/internal/dto"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/testutil"
)

func (s *APITestSuite) TestCreateComment_Tiers() {
	f := s.newFixture()
	task := testutil.CreateTask(s.T(), s.db, f.project.ID, f.owner.ID, "Discuss")

	w := s.do(http.MethodPost, taskPath(task.ID, "/comments"), map[string]string{"text": "Looks good"}, f.member.ID)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var comment dto.CommentDTO
	s.decode(w, &comment)
	s.Equal(f.member.ID, comment.UserID)
	s.Require().NotNil(comment.User)
	s.Equal("member", comment.User.Username)

	w = s.do(http.MethodPost, taskPath(task.ID, "/comments"), map[string]string{"text": "Me too"}, f.viewer.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	w = s.do(http.MethodPost, taskPath(task.ID, "/comments"), map[string]interface{}{"text": "As someone else", "userId": f.owner.ID}, f.member.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	w = s.do(http.MethodPost, taskPath(task.ID, "/comments"), map[string]string{"text": strings.Repeat("x", 2001)}, f.member.ID)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	// Assigned viewers hold PARTIAL and may comment.
	assigned := testutil.CreateTask(s.T(), s.db, f.project.ID, f.owner.ID, "Assigned", f.viewer.ID)
	w = s.do(http.MethodPost, taskPath(assigned.ID, "/comments"), map[string]string{"text": "On it"}, f.viewer.ID)
	s.Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (s *APITestSuite) TestEditAndDeleteComment_AuthorOnly() {
	f := s.newFixture()
	task := testutil.CreateTask(s.T(), s.db, f.project.ID, f.owner.ID, "Thread")
	comment := testutil.CreateComment(s.T(), s.db, task.ID, f.member.ID, "first")
	path := fmt.Sprintf("/tasks/comments/%d", comment.ID)

	// Even the project owner cannot edit someone else's comment.
	w := s.do(http.MethodPatch, path, map[string]string{"text": "edited"}, f.owner.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)
	w = s.do(http.MethodDelete, path, nil, f.owner.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	w = s.do(http.MethodPatch, path, map[string]string{"text": "edited"}, f.member.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.CommentDTO
	s.decode(w, &updated)
	s.Equal("edited", updated.Text)

	w = s.do(http.MethodDelete, path, nil, f.member.ID)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Zero(testutil.Count(s.T(), s.db, &models.Comment{}, "id = ?", comment.ID))

	w = s.do(http.MethodPatch, "/tasks/comments/9999", map[string]string{"text": "x"}, f.member.ID)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)
}

func (s *APITestSuite) TestAttachments() {
	f := s.newFixture()
	task := testutil.CreateTask(s.T(), s.db, f.project.ID, f.owner.ID, "Files", f.member.ID)
	body := map[string]string{"fileURL": "https://files.example.com/a.png", "fileName": "a.png"}

	w := s.do(http.MethodPost, taskPath(task.ID, "/attachments"), body, f.admin.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	w = s.do(http.MethodPost, taskPath(task.ID, "/attachments"), body, f.member.ID)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var att dto.AttachmentDTO
	s.decode(w, &att)
	s.Equal(f.member.ID, att.UploadedByID)

	path := fmt.Sprintf("/tasks/attachments/%d", att.ID)
	w = s.do(http.MethodDelete, path, nil, f.owner.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	w = s.do(http.MethodDelete, path, nil, f.member.ID)
	s.Equal(http.StatusOK, w.Code)
	s.Zero(testutil.Count(s.T(), s.db, &models.Attachment{}, "id = ?", att.ID))
}
