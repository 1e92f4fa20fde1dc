package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	scoper OwnershipScoper
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	scoper OwnershipScoper,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
		scoper: scoper,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if params.Status == "" {
		params.Status = models.StatusTodo
	} else if !models.IsValidStatus(params.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if params.Priority == "" {
		params.Priority = models.PriorityMedium
	} else if !models.IsValidPriority(params.Priority) {
		return nil, ErrInvalidPriority
	}

	project, err := s.scoper.ResolveOwnedProject(ctx, params.UserID, params.ProjectID)
	if err != nil {
		return nil, err
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}

	now := time.Now()
	const insertTaskQuery = `
INSERT INTO tasks AS t (id,
                        project_id,
                        title,
                        description,
                        status,
                        priority,
                        due_date,
                        created_at,
                        updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING ` + taskColumns + `
`
	task := new(models.Task)
	err = scanTask(s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		taskUUID.String(),
		project.ID,
		params.Title,
		params.Description,
		params.Status,
		params.Priority,
		params.DueDate,
		now,
	), task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", project.ID).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")

	s.logger.Info().
		Str("task_id", task.ID).
		Str("project_id", task.ProjectID).
		Str("user_id", params.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	return s.scoper.ResolveOwnedTask(ctx, userID, taskID)
}

func (s *taskServiceImpl) ListProjectTasks(
	ctx context.Context,
	userID, projectID string,
	filter TaskFilter,
	page Page,
) (*PageResult[models.Task], error) {
	project, err := s.scoper.ResolveOwnedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	b := buildTaskQuery(taskScope{projectID: project.ID}, filter)
	total, err := s.countTasks(ctx, b)
	if err != nil {
		return nil, err
	}

	limitClause, args := b.paginate(page)
	selectTasksQuery := `
SELECT ` + taskColumns + `
FROM tasks t
         JOIN projects p ON p.id = t.project_id
` + b.whereSQL() + `
ORDER BY t.created_at DESC, t.id DESC
` + limitClause

	rows, err := s.pgPool.Query(
		ctx,
		selectTasksQuery,
		args...,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", project.ID).
			Msg("failed to select project tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0, page.Limit())
	for rows.Next() {
		var task models.Task
		err = scanTask(rows, &task)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Int("total", total).
		Str("project_id", project.ID).
		Msg("selected project tasks")

	return newPageResult(tasks, total, page), nil
}

func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	userID string,
	filter TaskFilter,
	page Page,
) (*PageResult[models.TaskWithProject], error) {
	b := buildTaskQuery(taskScope{ownerID: userID, projectID: filter.ProjectID}, filter)
	total, err := s.countTasks(ctx, b)
	if err != nil {
		return nil, err
	}

	limitClause, args := b.paginate(page)
	selectTasksQuery := `
SELECT ` + taskColumns + `,
       p.id,
       p.name
FROM tasks t
         JOIN projects p ON p.id = t.project_id
` + b.whereSQL() + `
ORDER BY t.created_at DESC, t.id DESC
` + limitClause

	rows, err := s.pgPool.Query(
		ctx,
		selectTasksQuery,
		args...,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.TaskWithProject, 0, page.Limit())
	for rows.Next() {
		var task models.TaskWithProject
		err = rows.Scan(
			&task.ID,
			&task.ProjectID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Priority,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.Project.ID,
			&task.Project.Name,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Int("total", total).
		Str("user_id", userID).
		Msg("selected tasks")

	return newPageResult(tasks, total, page), nil
}

func (s *taskServiceImpl) countTasks(ctx context.Context, b *queryBuilder) (int, error) {
	countTasksQuery := `
SELECT COUNT(*)
FROM tasks t
         JOIN projects p ON p.id = t.project_id
` + b.whereSQL()

	var total int
	err := s.pgPool.QueryRow(
		ctx,
		countTasksQuery,
		b.args...,
	).Scan(&total)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count tasks")
		return 0, err
	}
	return total, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	if params.Status != nil && !models.IsValidStatus(*params.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if params.Priority != nil && !models.IsValidPriority(*params.Priority) {
		return nil, ErrInvalidPriority
	}

	b := new(queryBuilder)
	if params.Title != nil {
		b.set("title", *params.Title)
	}
	if params.Description.Set {
		b.set("description", params.Description.Ptr())
	}
	if params.Status != nil {
		b.set("status", *params.Status)
	}
	if params.Priority != nil {
		b.set("priority", *params.Priority)
	}
	if params.DueDate.Set {
		b.set("due_date", params.DueDate.Ptr())
	}

	if len(b.sets) == 0 {
		s.logger.Warn().
			Str("task_id", params.TaskID).
			Msg("no fields to update")
		return s.scoper.ResolveOwnedTask(ctx, params.UserID, params.TaskID)
	}

	b.set("updated_at", time.Now())
	b.where("t.id = " + b.arg(params.TaskID))
	b.where("p.id = t.project_id")
	b.where("p.owner_id = " + b.arg(params.UserID))

	updateTaskQuery := `
UPDATE tasks AS t
SET ` + b.setSQL() + `
FROM projects p
` + b.whereSQL() + `
RETURNING ` + taskColumns

	task := new(models.Task)
	err := scanTask(s.pgPool.QueryRow(
		ctx,
		updateTaskQuery,
		b.args...,
	), task)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("task_id", params.TaskID).
				Str("user_id", params.UserID).
				Msg("owned task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", params.TaskID).
			Msg("failed to update task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", params.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID string) error {
	const deleteTaskQuery = `
DELETE
FROM tasks t
    USING projects p
WHERE t.id = $1 AND
      p.id = t.project_id AND
      p.owner_id = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		taskID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("owned task not found")
		return ErrTaskNotFound
	}
	s.logger.Debug().
		Str("task_id", taskID).
		Msg("deleted task")

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}
