package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

const projectColumns = `p.id,
       p.owner_id,
       p.name,
       p.description,
       p.archived,
       p.created_at,
       p.updated_at`

const taskColumns = `t.id,
       t.project_id,
       t.title,
       t.description,
       t.status,
       t.priority,
       t.due_date,
       t.created_at,
       t.updated_at`

func scanProject(row pgx.Row, project *models.Project) error {
	return row.Scan(
		&project.ID,
		&project.OwnerID,
		&project.Name,
		&project.Description,
		&project.Archived,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
}

func scanTask(row pgx.Row, task *models.Task) error {
	return row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
}

type ownershipScoperImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewOwnershipScoper(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) OwnershipScoper {
	return &ownershipScoperImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *ownershipScoperImpl) ResolveOwnedProject(ctx context.Context, userID, projectID string) (*models.Project, error) {
	const selectOwnedProjectQuery = `
SELECT ` + projectColumns + `
FROM projects p
WHERE p.id = $1 AND
      p.owner_id = $2
`
	project := new(models.Project)
	err := scanProject(s.pgPool.QueryRow(
		ctx,
		selectOwnedProjectQuery,
		projectID,
		userID,
	), project)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("project_id", projectID).
				Str("user_id", userID).
				Msg("owned project not found")
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to select owned project")
		return nil, err
	}

	s.logger.Debug().
		Str("project_id", project.ID).
		Str("user_id", userID).
		Msg("resolved owned project")
	return project, nil
}

func (s *ownershipScoperImpl) ResolveOwnedTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	const selectOwnedTaskQuery = `
SELECT ` + taskColumns + `
FROM tasks t
         JOIN projects p ON p.id = t.project_id
WHERE t.id = $1 AND
      p.owner_id = $2
`
	task := new(models.Task)
	err := scanTask(s.pgPool.QueryRow(
		ctx,
		selectOwnedTaskQuery,
		taskID,
		userID,
	), task)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("task_id", taskID).
				Str("user_id", userID).
				Msg("owned task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select owned task")
		return nil, err
	}

	s.logger.Debug().
		Str("task_id", task.ID).
		Str("user_id", userID).
		Msg("resolved owned task")
	return task, nil
}
