package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/nullable"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type projectResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newProjectResponse(project *models.Project) projectResponse {
	return projectResponse{
		ID:          project.ID,
		OwnerID:     project.OwnerID,
		Name:        project.Name,
		Description: project.Description,
		Archived:    project.Archived,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

type getProjectsQuery struct {
	pageQuery
	Search   string `form:"search" binding:"omitempty,max=255"`
	Archived string `form:"archived" binding:"omitempty,oneof=all true false"`
}

// filter maps the archived parameter: "all" adds no constraint and an absent
// value lists active projects only.
func (q getProjectsQuery) filter() services.ProjectFilter {
	filter := services.ProjectFilter{Search: q.Search}
	switch q.Archived {
	case "all":
	case "true":
		archived := true
		filter.Archived = &archived
	default:
		archived := false
		filter.Archived = &archived
	}
	return filter
}

func (h *handlerImpl) HandleGetProjects(c *gin.Context) {
	var query getProjectsQuery
	if !h.bindQuery(c, &query) {
		return
	}

	result, err := h.projects.ListProjects(
		c,
		userIDFromContext(c),
		query.filter(),
		query.page(services.DefaultProjectPageSize),
	)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list projects")
		abort(c, newInternalServerError())
		return
	}

	c.JSON(http.StatusOK, newPageResponse(result, newProjectResponse))
}

type createProjectRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=255"`
	Description *string `json:"description" binding:"omitempty,max=300"`
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	var req createProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}

	project, err := h.projects.CreateProject(c, services.CreateProjectParams{
		UserID:      userIDFromContext(c),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create project")
		abort(c, newInternalServerError())
		return
	}

	c.JSON(http.StatusCreated, newProjectResponse(project))
}

func (h *handlerImpl) HandleGetProject(c *gin.Context) {
	projectID, ok := h.parseIDParam(c, "id", msgProjectNotFound)
	if !ok {
		return
	}

	project, err := h.projects.GetProject(c, userIDFromContext(c), projectID)
	if err != nil {
		h.abortServiceError(c, err, "failed to get project")
		return
	}

	c.JSON(http.StatusOK, newProjectResponse(project))
}

type updateProjectRequest struct {
	Name        *string                `json:"name" binding:"omitempty,min=2,max=255"`
	Description nullable.Field[string] `json:"description" binding:"omitempty,max=300"`
	Archived    *bool                  `json:"archived"`
}

func (h *handlerImpl) HandleUpdateProject(c *gin.Context) {
	projectID, ok := h.parseIDParam(c, "id", msgProjectNotFound)
	if !ok {
		return
	}

	var req updateProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}

	project, err := h.projects.UpdateProject(c, services.UpdateProjectParams{
		UserID:      userIDFromContext(c),
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
		Archived:    req.Archived,
	})
	if err != nil {
		h.abortServiceError(c, err, "failed to update project")
		return
	}

	c.JSON(http.StatusOK, newProjectResponse(project))
}

func (h *handlerImpl) HandleDeleteProject(c *gin.Context) {
	projectID, ok := h.parseIDParam(c, "id", msgProjectNotFound)
	if !ok {
		return
	}

	err := h.projects.DeleteProject(c, userIDFromContext(c), projectID)
	if err != nil {
		h.abortServiceError(c, err, "failed to delete project")
		return
	}

	c.Status(http.StatusNoContent)
}
