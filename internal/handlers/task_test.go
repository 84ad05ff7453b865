package handlers_test

import (
	"fmt"
	"net/http"

	"github.com/ludicboard/ludicboard-api/internal/dto"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/testutil"
)

func taskPath(id uint64, suffix string) string {
	return fmt.Sprintf("/tasks/%d%s", id, suffix)
}

func (s *APITestSuite) TestCreateTask_AssigneesRoundTrip() {
	f := s.newFixture()

	w := s.do(http.MethodPost, "/tasks", map[string]interface{}{
		"title":           "Write docs",
		"projectId":       f.project.ID,
		"priority":        "High",
		"tags":            []string{"docs", " api ", ""},
		"assignedUserIds": []uint64{f.viewer.ID, f.member.ID},
		"assignedUserId":  f.member.ID,
	}, f.admin.ID)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created dto.TaskDTO
	s.decode(w, &created)
	s.Equal(models.TaskStatusToDo, created.Status)
	s.Equal(models.PriorityHigh, created.Priority)
	s.Equal(f.admin.ID, created.AuthorUserID)

	w = s.do(http.MethodGet, taskPath(created.TaskID, ""), nil, f.owner.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var fetched dto.TaskDTO
	s.decode(w, &fetched)

	s.ElementsMatch([]uint64{f.member.ID, f.viewer.ID}, fetched.AssignedUserIDs)
	s.Require().NotNil(fetched.AssignedUserID)
	s.Equal(min(f.member.ID, f.viewer.ID), *fetched.AssignedUserID)
	s.Len(fetched.Assignees, 2)
	s.Require().NotNil(fetched.Author)
	s.Equal("admin", fetched.Author.Username)
	s.Equal([]string{"docs", "api"}, fetched.Tags)
}

func (s *APITestSuite) TestCreateTask_Rules() {
	f := s.newFixture()

	w := s.do(http.MethodPost, "/tasks", map[string]interface{}{
		"title": "Not mine", "projectId": f.project.ID, "authorUserId": f.owner.ID,
	}, f.member.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	w = s.do(http.MethodPost, "/tasks", map[string]interface{}{
		"title": "Stranger", "projectId": f.project.ID, "assignedUserIds": []uint64{f.outsider.ID},
	}, f.member.ID)
	resp := s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
	s.Equal("All assignees must be members of the project", resp.Message)

	w = s.do(http.MethodPost, "/tasks", map[string]interface{}{
		"title": "Read only", "projectId": f.project.ID,
	}, f.viewer.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeInsufficientPermissions)

	w = s.do(http.MethodPost, "/tasks", map[string]interface{}{
		"title": "Bad status", "projectId": f.project.ID, "status": "Done",
	}, f.member.ID)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.do(http.MethodPost, "/tasks", map[string]interface{}{
		"title": "Ghost project", "projectId": 9999,
	}, f.member.ID)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	s.Zero(testutil.Count(s.T(), s.db, &models.Task{}, ""))
}

// A viewer can list the project's tasks but cannot edit one.
func (s *APITestSuite) TestViewerCanListButNotEdit() {
	f := s.newFixture()
	task := testutil.CreateTask(s.T(), s.db, f.project.ID, f.owner.ID, "Visible")

	w := s.do(http.MethodGet, fmt.Sprintf("/tasks?projectId=%d", f.project.ID), nil, f.viewer.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var tasks []dto.TaskDTO
	s.decode(w, &tasks)
	s.Require().Len(tasks, 1)
	s.Equal(task.ID, tasks[0].TaskID)

	w = s.do(http.MethodPatch, taskPath(task.ID, ""), map[string]string{"title": "Hijacked"}, f.viewer.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	var stored models.Task
	s.Require().NoError(s.db.First(&stored, task.ID).Error)
	s.Equal("Visible", stored.Title)
}

func (s *APITestSuite) TestListTasks_RequiresMembership() {
	f := s.newFixture()

	w := s.do(http.MethodGet, fmt.Sprintf("/tasks?projectId=%d", f.project.ID), nil, f.outsider.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	w = s.do(http.MethodGet, "/tasks", nil, f.owner.ID)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.do(http.MethodGet, "/tasks?projectId=9999", nil, f.owner.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.JSONEq(`[]`, w.Body.String())
}

func (s *APITestSuite) TestGetTask_AccessTiers() {
	f := s.newFixture()
	task := testutil.CreateTask(s.T(), s.db, f.project.ID, f.member.ID, "Tiered")

	w := s.do(http.MethodGet, taskPath(task.ID, ""), nil, f.outsider.ID)
	resp := s.requireError(w, http.StatusForbidden, "")
	s.Equal("You do not have permission to access this task", resp.Message)

	w = s.do(http.MethodGet, taskPath(9999, ""), nil, f.owner.ID)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	// Tasks assigned to a non-member are listed for callers sharing the project.
	testutil.CreateTask(s.T(), s.db, f.project.ID, f.member.ID, "Outside help", f.outsider.ID)
	w = s.do(http.MethodGet, fmt.Sprintf("/tasks/user/%d", f.outsider.ID), nil, f.owner.ID)
	s.Require().Equal(http.StatusOK, w.Code)
	var tasks []dto.TaskDTO
	s.decode(w, &tasks)
	s.Len(tasks, 1)
}

func (s *APITestSuite) TestUpdateTask_Author() {
	f := s.newFixture()
	task := testutil.CreateTask(s.T(), s.db, f.project.ID, f.member.ID, "Draft", f.viewer.ID)

	w := s.do(http.MethodPatch, taskPath(task.ID, ""), map[string]interface{}{
		"title":           "Final",
		"points":          5,
		"assignedUserIds": []uint64{f.admin.ID},
	}, f.member.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.TaskDTO
	s.decode(w, &updated)
	s.Equal("Final", updated.Title)
	s.Require().NotNil(updated.Points)
	s.Equal(5, *updated.Points)
	s.Equal([]uint64{f.admin.ID}, updated.AssignedUserIDs)

	// Assignees hold PARTIAL and cannot make full edits.
	w = s.do(http.MethodPatch, taskPath(task.ID, ""), map[string]string{"title": "Mine now"}, f.admin.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	w = s.do(http.MethodPatch, taskPath(task.ID, ""), map[string]string{"status": "Finished"}, f.member.ID)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

func (s *APITestSuite) TestUpdateStatus_AssigneeAllowed() {
	f := s.newFixture()
	task := testutil.CreateTask(s.T(), s.db, f.project.ID, f.owner.ID, "Move me", f.member.ID)

	w := s.do(http.MethodPatch, taskPath(task.ID, "/status"), map[string]string{"status": "Work In Progress"}, f.member.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.TaskDTO
	s.decode(w, &updated)
	s.Equal(models.TaskStatusWorkInProgress, updated.Status)

	w = s.do(http.MethodPatch, taskPath(task.ID, "/status"), map[string]string{"status": "Completed"}, f.admin.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)
}

func (s *APITestSuite) TestAssignAndUnassign() {
	f := s.newFixture()
	task := testutil.CreateTask(s.T(), s.db, f.project.ID, f.owner.ID, "Share", f.member.ID)

	w := s.do(http.MethodPost, taskPath(task.ID, "/assign"), map[string]interface{}{"userIds": []uint64{f.admin.ID, f.admin.ID}}, f.member.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.TaskDTO
	s.decode(w, &updated)
	s.ElementsMatch([]uint64{f.member.ID, f.admin.ID}, updated.AssignedUserIDs)

	w = s.do(http.MethodPost, taskPath(task.ID, "/assign"), map[string]interface{}{"userIds": []uint64{f.outsider.ID}}, f.owner.ID)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.do(http.MethodPost, taskPath(task.ID, "/assign"), map[string]interface{}{"userIds": []uint64{}}, f.owner.ID)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.do(http.MethodPost, taskPath(task.ID, "/unassign"), map[string]interface{}{"userIds": []uint64{f.member.ID}}, f.viewer.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	w = s.do(http.MethodPost, taskPath(task.ID, "/unassign"), map[string]interface{}{"userIds": []uint64{f.member.ID}}, f.owner.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &updated)
	s.Equal([]uint64{f.admin.ID}, updated.AssignedUserIDs)
}

func (s *APITestSuite) TestDeleteTask() {
	f := s.newFixture()
	t := s.T()
	task := testutil.CreateTask(t, s.db, f.project.ID, f.member.ID, "Remove", f.admin.ID)
	testutil.CreateComment(t, s.db, task.ID, f.admin.ID, "note")
	testutil.CreateAttachment(t, s.db, task.ID, f.admin.ID)

	w := s.do(http.MethodDelete, taskPath(task.ID, ""), nil, f.admin.ID)
	s.requireError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	w = s.do(http.MethodDelete, taskPath(task.ID, ""), nil, f.member.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Zero(testutil.Count(t, s.db, &models.Task{}, "id = ?", task.ID))
	s.Zero(testutil.Count(t, s.db, &models.Comment{}, "task_id = ?", task.ID))
	s.Zero(testutil.Count(t, s.db, &models.Attachment{}, "task_id = ?", task.ID))
	s.Zero(testutil.Count(t, s.db, &models.TaskAssignment{}, "task_id = ?", task.ID))
}

func (s *APITestSuite) TestGenerateTasks_NotConfigured() {
	f := s.newFixture()

	w := s.do(http.MethodPost, "/tasks/generate", map[string]interface{}{
		"text": "Plan the launch", "projectId": f.project.ID,
	}, f.member.ID)
	s.requireError(w, http.StatusServiceUnavailable, apierrors.ErrCodeServiceUnavailable)
}

func (s *APITestSuite) TestListTasks_AfterProjectDelete() {
	f := s.newFixture()
	testutil.CreateTask(s.T(), s.db, f.project.ID, f.owner.ID, "Gone soon", f.member.ID)
	listPath := fmt.Sprintf("/tasks?projectId=%d", f.project.ID)

	w := s.do(http.MethodGet, listPath, nil, f.member.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var tasks []dto.TaskDTO
	s.decode(w, &tasks)
	s.Len(tasks, 1)

	w = s.do(http.MethodDelete, fmt.Sprintf("/projects/%d", f.project.ID), nil, f.owner.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	for _, user := range []uint64{f.owner.ID, f.member.ID, f.outsider.ID} {
		w = s.do(http.MethodGet, listPath, nil, user)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		s.JSONEq(`[]`, w.Body.String())
	}
}
