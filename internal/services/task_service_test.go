package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdesk/internal/apperrors"
	"teamdesk/internal/models"
)

type taskFixture struct {
	users         *fakeUserRepo
	teams         *fakeTeamRepo
	projects      *fakeProjectRepo
	tasks         *fakeTaskRepo
	assignments   *fakeAssignmentRepo
	notifications *fakeNotificationRepo
	svc           TaskService

	owner   *models.User
	member  *models.User
	project *models.Project
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	users := newFakeUserRepo()
	teams := newFakeTeamRepo(users)
	projects := newFakeProjectRepo(teams)
	tasks := newFakeTaskRepo(projects)
	assignments := newFakeAssignmentRepo()
	notifications := newFakeNotificationRepo()

	f := &taskFixture{
		users:         users,
		teams:         teams,
		projects:      projects,
		tasks:         tasks,
		assignments:   assignments,
		notifications: notifications,
		svc:           NewTaskService(tasks, projects, teams, assignments, notifications, 24*time.Hour),
	}

	ctx := context.Background()
	f.owner = users.add("Ada", "Lovelace", "ada@example.com")
	f.member = users.add("Bob", "Member", "bob@example.com")

	team := &models.Team{Name: "analytics", URL: "teamurl000000001", CreatedBy: f.owner.ID}
	require.NoError(t, teams.Create(ctx, team))
	require.NoError(t, teams.AddMember(ctx, models.Membership{UserID: f.owner.ID, TeamID: team.ID, Role: "owner"}))
	require.NoError(t, teams.AddMember(ctx, models.Membership{UserID: f.member.ID, TeamID: team.ID, Role: "member"}))

	f.project = &models.Project{Name: "pipeline", URL: "projurl000000001", TeamID: team.ID, CreatedBy: f.owner.ID}
	require.NoError(t, projects.Create(ctx, f.project))
	return f
}

func (f *taskFixture) createTask(t *testing.T, req models.CreateTaskRequest) *models.Task {
	t.Helper()
	task, err := f.svc.CreateTask(context.Background(), f.member.ID, f.project.URL, req)
	require.NoError(t, err)
	return task
}

func TestCreateTaskDefaultsAndAssigns(t *testing.T) {
	f := newTaskFixture(t)

	task := f.createTask(t, models.CreateTaskRequest{
		Title:      "ship it",
		AssignedTo: []int64{f.member.ID},
	})
	assert.Equal(t, models.StatusTodo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)

	assigned, err := f.assignments.Exists(context.Background(), f.member.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, assigned)
	// No due date, so no due notification.
	assert.Empty(t, f.notifications.byType(models.NotifyTaskDue))
}

func TestCreateTaskDueSoonNotifiesAssignee(t *testing.T) {
	f := newTaskFixture(t)

	due := time.Now().Add(6 * time.Hour)
	task := f.createTask(t, models.CreateTaskRequest{
		Title:      "urgent",
		DueDate:    &due,
		AssignedTo: []int64{f.member.ID},
	})

	dueNotes := f.notifications.byType(models.NotifyTaskDue)
	require.Len(t, dueNotes, 1)
	assert.Equal(t, f.member.ID, dueNotes[0].UserID)
	require.NotNil(t, dueNotes[0].RelatedID)
	assert.Equal(t, task.ID, *dueNotes[0].RelatedID)
}

func TestCreateTaskFarDueDateDoesNotNotify(t *testing.T) {
	f := newTaskFixture(t)

	due := time.Now().Add(72 * time.Hour)
	f.createTask(t, models.CreateTaskRequest{
		Title:      "later",
		DueDate:    &due,
		AssignedTo: []int64{f.member.ID},
	})
	assert.Empty(t, f.notifications.byType(models.NotifyTaskDue))
}

func TestAssignDuplicateConflicts(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, models.CreateTaskRequest{Title: "ship it"})

	require.NoError(t, f.svc.Assign(context.Background(), f.member.ID, task.ID, f.member.ID))
	err := f.svc.Assign(context.Background(), f.member.ID, task.ID, f.member.ID)
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.Status(err))
}

func TestAssignOutsiderRejected(t *testing.T) {
	f := newTaskFixture(t)
	outsider := f.users.add("Eve", "Outsider", "eve@example.com")
	task := f.createTask(t, models.CreateTaskRequest{Title: "ship it"})

	err := f.svc.Assign(context.Background(), f.member.ID, task.ID, outsider.ID)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.Status(err))
}

func TestPatchStatusAtMemberLevel(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, models.CreateTaskRequest{Title: "ship it"})

	done := models.StatusDone
	patched, err := f.svc.PatchTask(context.Background(), f.member.ID, task.ID, models.TaskPatch{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, patched.Status)

	// Any order is allowed: done back to todo.
	todo := models.StatusTodo
	patched, err = f.svc.PatchTask(context.Background(), f.member.ID, task.ID, models.TaskPatch{Status: &todo})
	require.NoError(t, err)
	assert.Equal(t, models.StatusTodo, patched.Status)
}

func TestPatchTitleNeedsAdmin(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, models.CreateTaskRequest{Title: "ship it"})

	title := "renamed"
	_, err := f.svc.PatchTask(context.Background(), f.member.ID, task.ID, models.TaskPatch{Title: &title})
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.Status(err))

	got, gerr := f.svc.GetTask(context.Background(), f.member.ID, task.ID)
	require.NoError(t, gerr)
	assert.Equal(t, "ship it", got.Title)

	patched, err := f.svc.PatchTask(context.Background(), f.owner.ID, task.ID, models.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", patched.Title)
}

func TestPatchInvalidStatusRejected(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, models.CreateTaskRequest{Title: "ship it"})

	bad := models.TaskStatus(7)
	_, err := f.svc.PatchTask(context.Background(), f.member.ID, task.ID, models.TaskPatch{Status: &bad})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.Status(err))
}

func TestDeleteTaskSecondDeleteNotFound(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, models.CreateTaskRequest{Title: "ship it"})

	require.NoError(t, f.svc.DeleteTask(context.Background(), f.member.ID, task.ID))
	err := f.svc.DeleteTask(context.Background(), f.member.ID, task.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.Status(err))
}

func TestTaskAccessDeniedForOutsider(t *testing.T) {
	f := newTaskFixture(t)
	outsider := f.users.add("Eve", "Outsider", "eve@example.com")
	task := f.createTask(t, models.CreateTaskRequest{Title: "ship it"})

	_, err := f.svc.GetTask(context.Background(), outsider.ID, task.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.Status(err))

	err = f.svc.DeleteTask(context.Background(), outsider.ID, task.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.Status(err))

	// The task is still there.
	got, gerr := f.svc.GetTask(context.Background(), f.member.ID, task.ID)
	require.NoError(t, gerr)
	assert.Equal(t, task.ID, got.ID)
}

func TestPayloadRoundTrip(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, models.CreateTaskRequest{Title: "ship it"})

	require.NoError(t, f.svc.SetPayload(context.Background(), f.member.ID, task.ID, []byte("blob")))
	data, err := f.svc.GetPayload(context.Background(), f.member.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), data)
}
