package v1

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

// fakeStore is an in-memory implementation of every service the handler
// depends on. Tokens are "token:" followed by the user id.
type fakeStore struct {
	mu        sync.Mutex
	clock     time.Time
	users     map[string]*models.User
	passwords map[string]string
	projects  []*models.Project
	tasks     []*models.Task
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clock:     time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		users:     make(map[string]*models.User),
		passwords: make(map[string]string),
	}
}

func (s *fakeStore) now() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *fakeStore) issue(user *models.User) *services.AuthResult {
	return &services.AuthResult{
		User:                 *user,
		AccessToken:          "token:" + user.ID,
		AccessTokenExpiresAt: s.clock.Add(time.Hour),
	}
}

func (s *fakeStore) Register(_ context.Context, params services.RegisterParams) (*services.AuthResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(params.Email))
	for _, user := range s.users {
		if user.Email == email {
			return nil, services.ErrUserAlreadyExists
		}
	}

	now := s.now()
	user := &models.User{
		ID:        uuid.NewString(),
		Name:      params.Name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[user.ID] = user
	s.passwords[user.ID] = params.Password
	return s.issue(user), nil
}

func (s *fakeStore) Login(_ context.Context, params services.LoginParams) (*services.AuthResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(params.Email))
	for _, user := range s.users {
		if user.Email == email {
			if s.passwords[user.ID] != params.Password {
				return nil, services.ErrInvalidCredentials
			}
			return s.issue(user), nil
		}
	}
	return nil, services.ErrInvalidCredentials
}

func (s *fakeStore) GetUser(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeStore) ParseAccessToken(token string) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := strings.CutPrefix(token, "token:")
	if !ok {
		return nil, services.ErrInvalidToken
	}
	user, ok := s.users[userID]
	if !ok {
		return nil, services.ErrInvalidToken
	}
	return &models.Identity{UserID: user.ID, Email: user.Email}, nil
}

func (s *fakeStore) ownedProject(userID, projectID string) (*models.Project, error) {
	for _, project := range s.projects {
		if project.ID == projectID && project.OwnerID == userID {
			return project, nil
		}
	}
	return nil, services.ErrProjectNotFound
}

func (s *fakeStore) ownedTask(userID, taskID string) (*models.Task, *models.Project, error) {
	for _, task := range s.tasks {
		if task.ID != taskID {
			continue
		}
		project, err := s.ownedProject(userID, task.ProjectID)
		if err != nil {
			return nil, nil, services.ErrTaskNotFound
		}
		return task, project, nil
	}
	return nil, nil, services.ErrTaskNotFound
}

func (s *fakeStore) CreateProject(_ context.Context, params services.CreateProjectParams) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	project := &models.Project{
		ID:          uuid.NewString(),
		OwnerID:     params.UserID,
		Name:        params.Name,
		Description: params.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.projects = append(s.projects, project)
	copied := *project
	return &copied, nil
}

func (s *fakeStore) GetProject(_ context.Context, userID, projectID string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.ownedProject(userID, projectID)
	if err != nil {
		return nil, err
	}
	copied := *project
	return &copied, nil
}

func (s *fakeStore) ListProjects(
	_ context.Context,
	userID string,
	filter services.ProjectFilter,
	page services.Page,
) (*services.PageResult[models.Project], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Project
	for _, project := range s.projects {
		if project.OwnerID != userID {
			continue
		}
		if filter.Archived != nil && project.Archived != *filter.Archived {
			continue
		}
		if !containsFold(filter.Search, project.Name, deref(project.Description)) {
			continue
		}
		matched = append(matched, *project)
	}
	slices.Reverse(matched)
	return paginate(matched, page), nil
}

func (s *fakeStore) UpdateProject(_ context.Context, params services.UpdateProjectParams) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.ownedProject(params.UserID, params.ProjectID)
	if err != nil {
		return nil, err
	}
	if params.Name != nil {
		project.Name = *params.Name
	}
	if params.Description.Set {
		project.Description = params.Description.Ptr()
	}
	if params.Archived != nil {
		project.Archived = *params.Archived
	}
	copied := *project
	return &copied, nil
}

func (s *fakeStore) DeleteProject(_ context.Context, userID, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ownedProject(userID, projectID); err != nil {
		return err
	}
	s.projects = slices.DeleteFunc(s.projects, func(p *models.Project) bool { return p.ID == projectID })
	s.tasks = slices.DeleteFunc(s.tasks, func(t *models.Task) bool { return t.ProjectID == projectID })
	return nil
}

func (s *fakeStore) CreateTask(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.ownedProject(params.UserID, params.ProjectID)
	if err != nil {
		return nil, err
	}
	if params.Status == "" {
		params.Status = models.StatusTodo
	}
	if params.Priority == "" {
		params.Priority = models.PriorityMedium
	}

	now := s.now()
	task := &models.Task{
		ID:          uuid.NewString(),
		ProjectID:   project.ID,
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
		Priority:    params.Priority,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks = append(s.tasks, task)
	copied := *task
	return &copied, nil
}

func (s *fakeStore) GetTask(_ context.Context, userID, taskID string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, _, err := s.ownedTask(userID, taskID)
	if err != nil {
		return nil, err
	}
	copied := *task
	return &copied, nil
}

func (s *fakeStore) matchTask(task *models.Task, project *models.Project, filter services.TaskFilter, withProjectName bool) bool {
	if filter.Status != "" && task.Status != filter.Status {
		return false
	}
	if filter.Priority != "" && task.Priority != filter.Priority {
		return false
	}
	fields := []string{task.Title, deref(task.Description)}
	if withProjectName {
		fields = append(fields, project.Name)
	}
	return containsFold(filter.Search, fields...)
}

func (s *fakeStore) ListProjectTasks(
	_ context.Context,
	userID, projectID string,
	filter services.TaskFilter,
	page services.Page,
) (*services.PageResult[models.Task], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.ownedProject(userID, projectID)
	if err != nil {
		return nil, err
	}

	var matched []models.Task
	for _, task := range s.tasks {
		if task.ProjectID == project.ID && s.matchTask(task, project, filter, false) {
			matched = append(matched, *task)
		}
	}
	slices.Reverse(matched)
	return paginate(matched, page), nil
}

func (s *fakeStore) ListTasks(
	_ context.Context,
	userID string,
	filter services.TaskFilter,
	page services.Page,
) (*services.PageResult[models.TaskWithProject], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.TaskWithProject
	for _, task := range s.tasks {
		project, err := s.ownedProject(userID, task.ProjectID)
		if err != nil {
			continue
		}
		if filter.ProjectID != "" && task.ProjectID != filter.ProjectID {
			continue
		}
		if !s.matchTask(task, project, filter, true) {
			continue
		}
		matched = append(matched, models.TaskWithProject{
			Task:    *task,
			Project: models.ProjectRef{ID: project.ID, Name: project.Name},
		})
	}
	slices.Reverse(matched)
	return paginate(matched, page), nil
}

func (s *fakeStore) UpdateTask(_ context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if params.Status != nil && !models.IsValidStatus(*params.Status) {
		return nil, services.ErrInvalidTaskStatus
	}
	task, _, err := s.ownedTask(params.UserID, params.TaskID)
	if err != nil {
		return nil, err
	}
	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description.Set {
		task.Description = params.Description.Ptr()
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.DueDate.Set {
		task.DueDate = params.DueDate.Ptr()
	}
	copied := *task
	return &copied, nil
}

func (s *fakeStore) DeleteTask(_ context.Context, userID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, err := s.ownedTask(userID, taskID); err != nil {
		return err
	}
	s.tasks = slices.DeleteFunc(s.tasks, func(t *models.Task) bool { return t.ID == taskID })
	return nil
}

func (s *fakeStore) GetSummary(_ context.Context, userID string) (*services.DashboardSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := new(services.DashboardSummary)
	for _, project := range s.projects {
		if project.OwnerID == userID && !project.Archived {
			summary.ProjectCount++
		}
	}
	for _, task := range s.tasks {
		if _, err := s.ownedProject(userID, task.ProjectID); err != nil {
			continue
		}
		summary.TaskCount++
		switch task.Status {
		case models.StatusTodo:
			summary.TodoCount++
		case models.StatusDoing:
			summary.DoingCount++
		case models.StatusDone:
			summary.DoneCount++
		}
	}
	return summary, nil
}

// failingStore fails every dashboard read with an unexpected error.
type failingStore struct {
	*fakeStore
}

func (failingStore) GetSummary(context.Context, string) (*services.DashboardSummary, error) {
	return nil, errors.New("connection reset by peer")
}

func paginate[T any](items []T, page services.Page) *services.PageResult[T] {
	total := len(items)
	start := min(page.Offset(), total)
	end := min(start+page.Limit(), total)
	return &services.PageResult[T]{
		Items:      append([]T{}, items[start:end]...),
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: services.TotalPages(total, page.Size),
	}
}

func containsFold(search string, fields ...string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
