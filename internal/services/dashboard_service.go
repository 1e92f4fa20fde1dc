package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type dashboardServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewDashboardService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) DashboardService {
	return &dashboardServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

// GetSummary counts the user's active projects and the tasks of all their
// projects, archived ones included.
func (s *dashboardServiceImpl) GetSummary(ctx context.Context, userID string) (*DashboardSummary, error) {
	const selectSummaryQuery = `
SELECT (SELECT COUNT(*)
        FROM projects
        WHERE owner_id = $1 AND
              archived = FALSE),
       COUNT(t.id),
       COUNT(t.id) FILTER (WHERE t.status = 'TODO'),
       COUNT(t.id) FILTER (WHERE t.status = 'DOING'),
       COUNT(t.id) FILTER (WHERE t.status = 'DONE')
FROM tasks t
         JOIN projects p ON p.id = t.project_id
WHERE p.owner_id = $1
`
	summary := new(DashboardSummary)
	err := s.pgPool.QueryRow(
		ctx,
		selectSummaryQuery,
		userID,
	).Scan(
		&summary.ProjectCount,
		&summary.TaskCount,
		&summary.TodoCount,
		&summary.DoingCount,
		&summary.DoneCount,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select dashboard summary")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", userID).
		Int("project_count", summary.ProjectCount).
		Int("task_count", summary.TaskCount).
		Msg("selected dashboard summary")

	return summary, nil
}
