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

type projectServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	scoper OwnershipScoper
}

func NewProjectService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	scoper OwnershipScoper,
) ProjectService {
	return &projectServiceImpl{
		logger: logger,
		pgPool: pgPool,
		scoper: scoper,
	}
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error) {
	projectUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate project uuid")
		return nil, err
	}

	now := time.Now()
	const insertProjectQuery = `
INSERT INTO projects AS p (id,
                           owner_id,
                           name,
                           description,
                           archived,
                           created_at,
                           updated_at)
VALUES ($1, $2, $3, $4, FALSE, $5, $5)
RETURNING ` + projectColumns + `
`
	project := new(models.Project)
	err = scanProject(s.pgPool.QueryRow(
		ctx,
		insertProjectQuery,
		projectUUID.String(),
		params.UserID,
		params.Name,
		params.Description,
		now,
	), project)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to insert project")
		return nil, err
	}
	s.logger.Debug().
		Str("project_id", project.ID).
		Msg("inserted project")

	s.logger.Info().
		Str("project_id", project.ID).
		Str("user_id", project.OwnerID).
		Msg("created project")
	return project, nil
}

func (s *projectServiceImpl) GetProject(ctx context.Context, userID, projectID string) (*models.Project, error) {
	return s.scoper.ResolveOwnedProject(ctx, userID, projectID)
}

func (s *projectServiceImpl) ListProjects(
	ctx context.Context,
	userID string,
	filter ProjectFilter,
	page Page,
) (*PageResult[models.Project], error) {
	b := buildProjectQuery(userID, filter)

	countProjectsQuery := `
SELECT COUNT(*)
FROM projects p
` + b.whereSQL()

	var total int
	err := s.pgPool.QueryRow(
		ctx,
		countProjectsQuery,
		b.args...,
	).Scan(&total)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to count projects")
		return nil, err
	}

	limitClause, args := b.paginate(page)
	selectProjectsQuery := `
SELECT ` + projectColumns + `
FROM projects p
` + b.whereSQL() + `
ORDER BY p.created_at DESC, p.id DESC
` + limitClause

	rows, err := s.pgPool.Query(
		ctx,
		selectProjectsQuery,
		args...,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select projects")
		return nil, err
	}
	defer rows.Close()

	projects := make([]models.Project, 0, page.Limit())
	for rows.Next() {
		var project models.Project
		err = scanProject(rows, &project)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan project")
			return nil, err
		}
		projects = append(projects, project)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(projects)).
		Int("total", total).
		Str("user_id", userID).
		Msg("selected projects")

	return newPageResult(projects, total, page), nil
}

func (s *projectServiceImpl) UpdateProject(ctx context.Context, params UpdateProjectParams) (*models.Project, error) {
	b := new(queryBuilder)
	if params.Name != nil {
		b.set("name", *params.Name)
	}
	if params.Description.Set {
		b.set("description", params.Description.Ptr())
	}
	if params.Archived != nil {
		b.set("archived", *params.Archived)
	}

	if len(b.sets) == 0 {
		s.logger.Warn().
			Str("project_id", params.ProjectID).
			Msg("no fields to update")
		return s.scoper.ResolveOwnedProject(ctx, params.UserID, params.ProjectID)
	}

	b.set("updated_at", time.Now())
	b.where("p.id = " + b.arg(params.ProjectID))
	b.where("p.owner_id = " + b.arg(params.UserID))

	updateProjectQuery := `
UPDATE projects AS p
SET ` + b.setSQL() + `
` + b.whereSQL() + `
RETURNING ` + projectColumns

	project := new(models.Project)
	err := scanProject(s.pgPool.QueryRow(
		ctx,
		updateProjectQuery,
		b.args...,
	), project)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("project_id", params.ProjectID).
				Str("user_id", params.UserID).
				Msg("owned project not found")
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Str("project_id", params.ProjectID).
			Msg("failed to update project")
		return nil, err
	}
	s.logger.Debug().
		Str("project_id", project.ID).
		Msg("updated project")

	s.logger.Info().
		Str("project_id", project.ID).
		Str("user_id", params.UserID).
		Msg("updated project")
	return project, nil
}

func (s *projectServiceImpl) DeleteProject(ctx context.Context, userID, projectID string) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const deleteProjectTasksQuery = `
DELETE
FROM tasks t
    USING projects p
WHERE t.project_id = $1 AND
      p.id = t.project_id AND
      p.owner_id = $2
`
	tasksTag, err := tx.Exec(
		ctx,
		deleteProjectTasksQuery,
		projectID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to delete project tasks")
		return err
	}

	const deleteProjectQuery = `
DELETE
FROM projects
WHERE id = $1 AND
      owner_id = $2
`
	projectTag, err := tx.Exec(
		ctx,
		deleteProjectQuery,
		projectID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to delete project")
		return err
	}
	if projectTag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("project_id", projectID).
			Str("user_id", userID).
			Msg("owned project not found")
		return ErrProjectNotFound
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}
	s.logger.Debug().
		Str("project_id", projectID).
		Int64("tasks_affected", tasksTag.RowsAffected()).
		Msg("deleted project with tasks")

	s.logger.Info().
		Str("project_id", projectID).
		Str("user_id", userID).
		Msg("deleted project")
	return nil
}
