package services

import (
	"context"
	"sort"
	"time"

	"teamdesk/internal/authz"
	"teamdesk/internal/cascade"
	"teamdesk/internal/models"
	"teamdesk/internal/repositories"
)

// In-memory repository fakes. They keep just enough state for the
// service tests to drive realistic scenarios without a database.

type memberKey struct {
	userID int64
	teamID int64
}

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}}
}

func (r *fakeUserRepo) add(firstName, lastName, email string) *models.User {
	r.nextID++
	u := &models.User{
		ID:        r.nextID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		CreatedAt: time.Now(),
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id int64, patch models.ProfilePatch) (int64, error) {
	u, ok := r.users[id]
	if !ok {
		return 0, nil
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.ProfileImage != nil {
		u.ProfileImage = patch.ProfileImage
	}
	if patch.Location != nil {
		u.Location = patch.Location
	}
	return 1, nil
}

func (r *fakeUserRepo) SetTelegramChat(_ context.Context, id, chatID int64) error {
	if u, ok := r.users[id]; ok {
		u.TelegramChat = &chatID
	}
	return nil
}

type fakeTeamRepo struct {
	nextID  int64
	teams   map[int64]*models.Team
	roles   map[memberKey]string
	users   *fakeUserRepo
	updates int
}

func newFakeTeamRepo(users *fakeUserRepo) *fakeTeamRepo {
	return &fakeTeamRepo{
		teams: map[int64]*models.Team{},
		roles: map[memberKey]string{},
		users: users,
	}
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	r.nextID++
	team.ID = r.nextID
	team.CreatedAt = time.Now()
	r.teams[team.ID] = team
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int64) (*models.Team, error) {
	return r.teams[id], nil
}

func (r *fakeTeamRepo) GetByURL(_ context.Context, url string) (*models.Team, error) {
	for _, t := range r.teams {
		if t.URL == url {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTeamRepo) ExistsByNameAndCreator(_ context.Context, name string, creatorID int64) (bool, error) {
	for _, t := range r.teams {
		if t.Name == name && t.CreatedBy == creatorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTeamRepo) ListForUser(_ context.Context, userID int64) ([]models.TeamSummary, error) {
	var out []models.TeamSummary
	for k, role := range r.roles {
		if k.userID != userID {
			continue
		}
		out = append(out, models.TeamSummary{Team: *r.teams[k.teamID], Role: role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) UpdateName(_ context.Context, teamID int64, name string) (int64, error) {
	t, ok := r.teams[teamID]
	if !ok {
		return 0, nil
	}
	t.Name = name
	r.updates++
	return 1, nil
}

func (r *fakeTeamRepo) GetRole(_ context.Context, userID, teamID int64) (authz.Role, error) {
	return authz.ParseRole(r.roles[memberKey{userID, teamID}]), nil
}

func (r *fakeTeamRepo) AddMember(_ context.Context, m models.Membership) error {
	r.roles[memberKey{m.UserID, m.TeamID}] = m.Role
	return nil
}

func (r *fakeTeamRepo) RemoveMember(_ context.Context, userID, teamID int64) (int64, error) {
	k := memberKey{userID, teamID}
	if _, ok := r.roles[k]; !ok {
		return 0, nil
	}
	delete(r.roles, k)
	return 1, nil
}

func (r *fakeTeamRepo) ChangeRole(_ context.Context, userID, teamID int64, role string) (int64, error) {
	k := memberKey{userID, teamID}
	if _, ok := r.roles[k]; !ok {
		return 0, nil
	}
	r.roles[k] = role
	return 1, nil
}

func (r *fakeTeamRepo) ListMembers(_ context.Context, teamID int64) ([]models.TeamMember, error) {
	var out []models.TeamMember
	for k, role := range r.roles {
		if k.teamID != teamID {
			continue
		}
		u := r.users.users[k.userID]
		out = append(out, models.TeamMember{
			UserID:    u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      role,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeTeamRepo) GetOwnerContact(_ context.Context, teamID int64) (*models.OwnerContact, error) {
	for k, role := range r.roles {
		if k.teamID == teamID && role == "owner" {
			u := r.users.users[k.userID]
			return &models.OwnerContact{UserID: u.ID, Name: u.FullName(), Email: u.Email}, nil
		}
	}
	return nil, nil
}

type fakeProjectRepo struct {
	nextID       int64
	projects     map[int64]*models.Project
	participants map[memberKey]bool // userID, projectID
	teams        *fakeTeamRepo
}

func newFakeProjectRepo(teams *fakeTeamRepo) *fakeProjectRepo {
	return &fakeProjectRepo{
		projects:     map[int64]*models.Project{},
		participants: map[memberKey]bool{},
		teams:        teams,
	}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *models.Project) error {
	r.nextID++
	project.ID = r.nextID
	project.CreatedAt = time.Now()
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id int64) (*models.Project, error) {
	return r.projects[id], nil
}

func (r *fakeProjectRepo) GetByURL(_ context.Context, url string) (*models.Project, error) {
	for _, p := range r.projects {
		if p.URL == url {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProjectRepo) ListByTeam(_ context.Context, teamID int64) ([]models.ProjectSummary, error) {
	var out []models.ProjectSummary
	for _, p := range r.projects {
		if p.TeamID == teamID {
			out = append(out, models.ProjectSummary{Project: *p})
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, projectID int64, name, description string) (int64, error) {
	p, ok := r.projects[projectID]
	if !ok {
		return 0, nil
	}
	p.Name = name
	p.Description = description
	return 1, nil
}

func (r *fakeProjectRepo) GetRole(ctx context.Context, userID, projectID int64) (authz.Role, error) {
	p, ok := r.projects[projectID]
	if !ok {
		return authz.RoleNone, nil
	}
	return r.teams.GetRole(ctx, userID, p.TeamID)
}

func (r *fakeProjectRepo) AddParticipant(_ context.Context, userID, projectID int64) error {
	r.participants[memberKey{userID, projectID}] = true
	return nil
}

func (r *fakeProjectRepo) RemoveParticipant(_ context.Context, userID, projectID int64) (int64, error) {
	k := memberKey{userID, projectID}
	if !r.participants[k] {
		return 0, nil
	}
	delete(r.participants, k)
	return 1, nil
}

func (r *fakeProjectRepo) ListParticipants(_ context.Context, projectID int64) ([]models.Participant, error) {
	var out []models.Participant
	for k := range r.participants {
		if k.teamID == projectID {
			out = append(out, models.Participant{UserID: k.userID})
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) IsParticipant(_ context.Context, userID, projectID int64) (bool, error) {
	return r.participants[memberKey{userID, projectID}], nil
}

type fakeTaskRepo struct {
	nextID   int64
	tasks    map[int64]*models.Task
	payloads map[int64][]byte
	projects *fakeProjectRepo
	due      []repositories.DueTask
}

func newFakeTaskRepo(projects *fakeProjectRepo) *fakeTaskRepo {
	return &fakeTaskRepo{
		tasks:    map[int64]*models.Task{},
		payloads: map[int64][]byte{},
		projects: projects,
	}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *models.Task) error {
	r.nextID++
	task.ID = r.nextID
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	r.tasks[task.ID] = task
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id int64) (*models.Task, error) {
	return r.tasks[id], nil
}

func (r *fakeTaskRepo) ListByProject(_ context.Context, projectID int64) ([]models.TaskSummary, error) {
	var out []models.TaskSummary
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			out = append(out, models.TaskSummary{Task: *t, Assignees: []models.Assignee{}})
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) ApplyPatch(_ context.Context, id int64, patch models.TaskPatch) (int64, error) {
	t, ok := r.tasks[id]
	if !ok {
		return 0, nil
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		t.DueDate = patch.DueDate
	}
	t.UpdatedAt = time.Now()
	return 1, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := r.tasks[id]; !ok {
		return 0, nil
	}
	delete(r.tasks, id)
	return 1, nil
}

func (r *fakeTaskRepo) GetRole(ctx context.Context, userID, taskID int64) (authz.Role, error) {
	t, ok := r.tasks[taskID]
	if !ok {
		return authz.RoleNone, nil
	}
	return r.projects.GetRole(ctx, userID, t.ProjectID)
}

func (r *fakeTaskRepo) SetPayload(_ context.Context, id int64, data []byte) (int64, error) {
	if _, ok := r.tasks[id]; !ok {
		return 0, nil
	}
	r.payloads[id] = data
	return 1, nil
}

func (r *fakeTaskRepo) GetPayload(_ context.Context, id int64) ([]byte, error) {
	return r.payloads[id], nil
}

func (r *fakeTaskRepo) ListDueSoonUnnotified(_ context.Context, _ time.Duration) ([]repositories.DueTask, error) {
	return r.due, nil
}

type assignKey struct {
	userID int64
	taskID int64
}

type fakeAssignmentRepo struct {
	assigned map[assignKey]bool
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assigned: map[assignKey]bool{}}
}

func (r *fakeAssignmentRepo) Assign(_ context.Context, userID, taskID int64) error {
	r.assigned[assignKey{userID, taskID}] = true
	return nil
}

func (r *fakeAssignmentRepo) Unassign(_ context.Context, userID, taskID int64) (int64, error) {
	k := assignKey{userID, taskID}
	if !r.assigned[k] {
		return 0, nil
	}
	delete(r.assigned, k)
	return 1, nil
}

func (r *fakeAssignmentRepo) Exists(_ context.Context, userID, taskID int64) (bool, error) {
	return r.assigned[assignKey{userID, taskID}], nil
}

func (r *fakeAssignmentRepo) ListByTask(_ context.Context, taskID int64) ([]models.Assignee, error) {
	var out []models.Assignee
	for k := range r.assigned {
		if k.taskID == taskID {
			out = append(out, models.Assignee{UserID: k.userID})
		}
	}
	return out, nil
}

type fakeCommentRepo struct {
	nextID   int64
	comments map[int64]*models.Comment
	metas    map[int64]*repositories.CommentMeta
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		comments: map[int64]*models.Comment{},
		metas:    map[int64]*repositories.CommentMeta{},
	}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	r.nextID++
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) ListByTask(_ context.Context, taskID int64) ([]models.CommentView, error) {
	var out []models.CommentView
	for _, c := range r.comments {
		if c.TaskID == taskID {
			out = append(out, models.CommentView{Comment: *c})
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) GetMeta(_ context.Context, commentID int64) (*repositories.CommentMeta, error) {
	return r.metas[commentID], nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, commentID int64) (int64, error) {
	if _, ok := r.metas[commentID]; !ok {
		return 0, nil
	}
	delete(r.metas, commentID)
	delete(r.comments, commentID)
	return 1, nil
}

func (r *fakeCommentRepo) Like(_ context.Context, commentID int64) (int, error) {
	c, ok := r.comments[commentID]
	if !ok {
		return 0, nil
	}
	c.Likes++
	return c.Likes, nil
}

type fakeNotificationRepo struct {
	nextID  int64
	created []*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = time.Now()
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID int64, unreadOnly bool, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.created {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, notificationID, userID int64) (int64, error) {
	for _, n := range r.created {
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	var count int64
	for _, n := range r.created {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) byType(t models.NotificationType) []*models.Notification {
	var out []*models.Notification
	for _, n := range r.created {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

type fakeCascadeRepo struct {
	executed []cascade.Plan
}

func (r *fakeCascadeRepo) Execute(_ context.Context, plan cascade.Plan) error {
	r.executed = append(r.executed, plan)
	return nil
}

type fakeEmailSender struct {
	invites   []string
	reminders []string
}

func (s *fakeEmailSender) SendTeamInvite(email, _, _ string) error {
	s.invites = append(s.invites, email)
	return nil
}

func (s *fakeEmailSender) SendDueReminder(email, _, _ string) error {
	s.reminders = append(s.reminders, email)
	return nil
}

type fakeTelegramSender struct {
	sent []int64
}

func (s *fakeTelegramSender) SendMessage(chatID int64, _ string) error {
	s.sent = append(s.sent, chatID)
	return nil
}
