package services

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/nullable"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrProjectNotFound    = errors.New("project not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidTaskStatus  = errors.New("invalid task status")
	ErrInvalidPriority    = errors.New("invalid task priority")
)

type AuthService interface {
	// Register creates a user with the given name, email and password and
	// issues an access token for it.
	//
	// It returns ErrUserAlreadyExists if the email is already taken.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login authenticates the user by email and password.
	//
	// It returns ErrInvalidCredentials both when the email is unknown and
	// when the password does not match.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)

	// GetUser returns the user with the given ID or ErrUserNotFound.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// ParseAccessToken verifies the token signature, issuer and expiry and
	// returns the identity it carries, or an error wrapping ErrInvalidToken.
	ParseAccessToken(token string) (*models.Identity, error)
}

// OwnershipScoper resolves resources only through the requesting user's
// ownership graph. A resource that exists but belongs to someone else is
// reported exactly like one that does not exist.
type OwnershipScoper interface {
	ResolveOwnedProject(ctx context.Context, userID, projectID string) (*models.Project, error)
	ResolveOwnedTask(ctx context.Context, userID, taskID string) (*models.Task, error)
}

type ProjectService interface {
	CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error)
	GetProject(ctx context.Context, userID, projectID string) (*models.Project, error)
	ListProjects(ctx context.Context, userID string, filter ProjectFilter, page Page) (*PageResult[models.Project], error)
	UpdateProject(ctx context.Context, params UpdateProjectParams) (*models.Project, error)

	// DeleteProject removes the project and all of its tasks in one
	// transaction.
	DeleteProject(ctx context.Context, userID, projectID string) error
}

type TaskService interface {
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)
	GetTask(ctx context.Context, userID, taskID string) (*models.Task, error)

	// ListProjectTasks lists the tasks of one project after checking that the
	// user owns it. Search matches title and description only.
	ListProjectTasks(ctx context.Context, userID, projectID string, filter TaskFilter, page Page) (*PageResult[models.Task], error)

	// ListTasks lists tasks across every project of the user. Search also
	// matches the project name and every item carries its project reference.
	ListTasks(ctx context.Context, userID string, filter TaskFilter, page Page) (*PageResult[models.TaskWithProject], error)

	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
}

type DashboardService interface {
	GetSummary(ctx context.Context, userID string) (*DashboardSummary, error)
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	User                 models.User
	AccessToken          string
	AccessTokenExpiresAt time.Time
}

type CreateProjectParams struct {
	UserID      string
	Name        string
	Description *string
}

// UpdateProjectParams carries a partial update. Nil pointers and unset fields
// leave the stored value untouched; a null Description clears it.
type UpdateProjectParams struct {
	UserID      string
	ProjectID   string
	Name        *string
	Description nullable.Field[string]
	Archived    *bool
}

type CreateTaskParams struct {
	UserID      string
	ProjectID   string
	Title       string
	Description *string
	Status      string
	Priority    string
	DueDate     *time.Time
}

// UpdateTaskParams carries a partial update. A null Description or DueDate
// clears the stored value.
type UpdateTaskParams struct {
	UserID      string
	TaskID      string
	Title       *string
	Description nullable.Field[string]
	Status      *string
	Priority    *string
	DueDate     nullable.Field[time.Time]
}

type DashboardSummary struct {
	ProjectCount int
	TaskCount    int
	TodoCount    int
	DoingCount   int
	DoneCount    int
}
