package handlers_test

import (
	"fmt"
	"net/http"

	"github.com/ludicboard/ludicboard-api/internal/dto"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/testutil"
)

func (s *APITestSuite) TestCreateAndListProjects() {
	user := testutil.CreateUser(s.T(), s.db, "creator")

	w := s.do(http.MethodPost, "/projects", map[string]string{
		"name":        "Launch",
		"description": "Ship it",
	}, user.ID)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created dto.ProjectDTO
	s.decode(w, &created)
	s.NotZero(created.ProjectID)
	s.Equal(models.RoleOwner, created.Role)

	w = s.do(http.MethodGet, "/projects", nil, user.ID)
	s.Require().Equal(http.StatusOK, w.Code)
	var list []dto.ProjectDTO
	s.decode(w, &list)
	s.Require().Len(list, 1)
	s.Equal("Launch", list[0].Name)
	s.Equal(models.RoleOwner, list[0].Role)

	other := testutil.CreateUser(s.T(), s.db, "stranger")
	w = s.do(http.MethodGet, "/projects", nil, other.ID)
	s.decode(w, &list)
	s.Empty(list)
}

func (s *APITestSuite) TestCreateProject_Validation() {
	user := testutil.CreateUser(s.T(), s.db, "creator")

	w := s.do(http.MethodPost, "/projects", map[string]string{"name": "ab"}, user.ID)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.do(http.MethodPost, "/projects", map[string]string{
		"name":      "Backwards",
		"startDate": "2026-05-01T00:00:00Z",
		"endDate":   "2026-04-01T00:00:00Z",
	}, user.ID)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

func (s *APITestSuite) TestGetProject() {
	f := s.newFixture()
	path := fmt.Sprintf("/projects/%d", f.project.ID)

	w := s.do(http.MethodGet, path, nil, f.viewer.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var detail dto.ProjectDetailDTO
	s.decode(w, &detail)
	s.Equal(models.RoleViewer, detail.YourRole)
	s.Len(detail.Members, 4)

	w = s.do(http.MethodGet, path, nil, f.outsider.ID)
	resp := s.requireError(w, http.StatusForbidden, "")
	s.Equal("You do not have access to this project", resp.Message)

	w = s.do(http.MethodGet, "/projects/9999", nil, f.owner.ID)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)
}

func (s *APITestSuite) TestDeleteProject_OwnerOnly() {
	f := s.newFixture()
	path := fmt.Sprintf("/projects/%d", f.project.ID)

	w := s.do(http.MethodDelete, path, nil, f.admin.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeInsufficientPermissions)

	w = s.do(http.MethodDelete, path, nil, f.owner.ID)
	s.Equal(http.StatusOK, w.Code)
	s.Zero(testutil.Count(s.T(), s.db, &models.Project{}, "id = ?", f.project.ID))
}

// Deleting a project removes every task, comment, attachment and assignment in it.
func (s *APITestSuite) TestDeleteProject_Cascades() {
	f := s.newFixture()
	t := s.T()
	task := testutil.CreateTask(t, s.db, f.project.ID, f.owner.ID, "Doomed", f.member.ID)
	testutil.CreateComment(t, s.db, task.ID, f.member.ID, "bye")
	testutil.CreateAttachment(t, s.db, task.ID, f.member.ID)

	team := &models.Team{TeamName: "Platform"}
	s.Require().NoError(s.db.Create(team).Error)
	s.Require().NoError(s.db.Create(&models.ProjectTeam{TeamID: team.ID, ProjectID: f.project.ID}).Error)

	other := testutil.CreateProject(t, s.db, "Survivor", f.owner)
	kept := testutil.CreateTask(t, s.db, other.ID, f.owner.ID, "Kept", f.owner.ID)

	w := s.do(http.MethodDelete, fmt.Sprintf("/projects/%d", f.project.ID), nil, f.owner.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, fmt.Sprintf("/tasks?projectId=%d", f.project.ID), nil, f.owner.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.JSONEq(`[]`, w.Body.String())

	s.Zero(testutil.Count(t, s.db, &models.Task{}, "project_id = ?", f.project.ID))
	s.Zero(testutil.Count(t, s.db, &models.Comment{}, "task_id = ?", task.ID))
	s.Zero(testutil.Count(t, s.db, &models.Attachment{}, "task_id = ?", task.ID))
	s.Zero(testutil.Count(t, s.db, &models.TaskAssignment{}, "task_id = ?", task.ID))
	s.Zero(testutil.Count(t, s.db, &models.ProjectTeam{}, "project_id = ?", f.project.ID))
	s.Zero(testutil.Count(t, s.db, &models.ProjectMembership{}, "project_id = ?", f.project.ID))

	s.Equal(int64(1), testutil.Count(t, s.db, &models.Task{}, "id = ?", kept.ID))
	s.Equal(int64(1), testutil.Count(t, s.db, &models.TaskAssignment{}, "task_id = ?", kept.ID))
}

func (s *APITestSuite) TestAddMember() {
	f := s.newFixture()
	path := fmt.Sprintf("/projects/%d/members", f.project.ID)

	w := s.do(http.MethodPost, path, map[string]interface{}{"userId": f.outsider.ID, "role": "MEMBER"}, f.admin.ID)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, path, map[string]interface{}{"userId": f.outsider.ID, "role": "MEMBER"}, f.owner.ID)
	s.requireError(w, http.StatusConflict, apierrors.ErrCodeAlreadyExists)

	w = s.do(http.MethodPost, path, map[string]interface{}{"userId": 9999, "role": "MEMBER"}, f.owner.ID)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	newcomer := testutil.CreateUser(s.T(), s.db, "newcomer")
	w = s.do(http.MethodPost, path, map[string]interface{}{"userId": newcomer.ID, "role": "OWNER"}, f.admin.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeInsufficientPermissions)

	w = s.do(http.MethodPost, path, map[string]interface{}{"userId": newcomer.ID, "role": "BOSS"}, f.owner.ID)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.do(http.MethodPost, path, map[string]interface{}{"userId": newcomer.ID, "role": "VIEWER"}, f.member.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeInsufficientPermissions)
}

func (s *APITestSuite) TestUpdateMemberRole() {
	f := s.newFixture()
	rolePath := func(u *models.User) string {
		return fmt.Sprintf("/projects/%d/members/%d/role", f.project.ID, u.ID)
	}

	w := s.do(http.MethodPatch, rolePath(f.viewer), map[string]string{"role": "MEMBER"}, f.admin.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPatch, rolePath(f.owner), map[string]string{"role": "MEMBER"}, f.admin.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeInsufficientPermissions)

	w = s.do(http.MethodPatch, rolePath(f.owner), map[string]string{"role": "ADMIN"}, f.owner.ID)
	resp := s.requireError(w, http.StatusConflict, apierrors.ErrCodeLastOwner)
	s.Equal("cannot remove last owner", resp.Message)

	var m models.ProjectMembership
	s.Require().NoError(s.db.First(&m, "project_id = ? AND user_id = ?", f.project.ID, f.owner.ID).Error)
	s.Equal(models.RoleOwner, m.Role)
}

func (s *APITestSuite) TestRemoveMember_LastOwner() {
	f := s.newFixture()
	path := func(u *models.User) string {
		return fmt.Sprintf("/projects/%d/members/%d", f.project.ID, u.ID)
	}

	w := s.do(http.MethodDelete, path(f.owner), nil, f.owner.ID)
	resp := s.requireError(w, http.StatusConflict, apierrors.ErrCodeLastOwner)
	s.Equal("cannot remove last owner", resp.Message)
	s.Equal(int64(1), testutil.Count(s.T(), s.db, &models.ProjectMembership{}, "project_id = ? AND role = ?", f.project.ID, models.RoleOwner))

	w = s.do(http.MethodDelete, path(f.owner), nil, f.admin.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeInsufficientPermissions)

	w = s.do(http.MethodDelete, path(f.viewer), nil, f.admin.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Zero(testutil.Count(s.T(), s.db, &models.ProjectMembership{}, "project_id = ? AND user_id = ?", f.project.ID, f.viewer.ID))

	// With a second owner the first may leave.
	w = s.do(http.MethodPatch, fmt.Sprintf("/projects/%d/members/%d/role", f.project.ID, f.admin.ID), map[string]string{"role": "OWNER"}, f.owner.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodDelete, path(f.owner), nil, f.owner.ID)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
}
