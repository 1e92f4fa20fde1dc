package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/nullable"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type taskResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

type projectRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type taskWithProjectResponse struct {
	taskResponse
	Project projectRefResponse `json:"project"`
}

func newTaskWithProjectResponse(task *models.TaskWithProject) taskWithProjectResponse {
	return taskWithProjectResponse{
		taskResponse: newTaskResponse(&task.Task),
		Project: projectRefResponse{
			ID:   task.Project.ID,
			Name: task.Project.Name,
		},
	}
}

type taskFilterQuery struct {
	pageQuery
	Search   string `form:"search" binding:"omitempty,max=255"`
	Status   string `form:"status" binding:"omitempty,oneof=TODO DOING DONE"`
	Priority string `form:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
}

func (q taskFilterQuery) filter() services.TaskFilter {
	return services.TaskFilter{
		Status:   q.Status,
		Priority: q.Priority,
		Search:   q.Search,
	}
}

func (h *handlerImpl) HandleGetProjectTasks(c *gin.Context) {
	projectID, ok := h.parseIDParam(c, "id", msgProjectNotFound)
	if !ok {
		return
	}

	var query taskFilterQuery
	if !h.bindQuery(c, &query) {
		return
	}

	result, err := h.tasks.ListProjectTasks(
		c,
		userIDFromContext(c),
		projectID,
		query.filter(),
		query.page(services.DefaultTaskPageSize),
	)
	if err != nil {
		h.abortServiceError(c, err, "failed to list project tasks")
		return
	}

	c.JSON(http.StatusOK, newPageResponse(result, newTaskResponse))
}

type getTasksQuery struct {
	taskFilterQuery
	ProjectID string `form:"projectId" binding:"omitempty,uuid"`
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	var query getTasksQuery
	if !h.bindQuery(c, &query) {
		return
	}

	filter := query.filter()
	filter.ProjectID = query.ProjectID

	result, err := h.tasks.ListTasks(
		c,
		userIDFromContext(c),
		filter,
		query.page(services.DefaultTaskPageSize),
	)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newInternalServerError())
		return
	}

	c.JSON(http.StatusOK, newPageResponse(result, newTaskWithProjectResponse))
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,min=2,max=255"`
	Description *string `json:"description" binding:"omitempty,max=400"`
	Status      string  `json:"status" binding:"omitempty,oneof=TODO DOING DONE"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *string `json:"dueDate" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (h *handlerImpl) HandleCreateProjectTask(c *gin.Context) {
	projectID, ok := h.parseIDParam(c, "id", msgProjectNotFound)
	if !ok {
		return
	}

	var req createTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, ok := parseDueDate(c, *req.DueDate)
		if !ok {
			return
		}
		dueDate = &parsed
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		UserID:      userIDFromContext(c),
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     dueDate,
	})
	if err != nil {
		h.abortServiceError(c, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	taskID, ok := h.parseIDParam(c, "id", msgTaskNotFound)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, userIDFromContext(c), taskID)
	if err != nil {
		h.abortServiceError(c, err, "failed to get task")
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

type updateTaskRequest struct {
	Title       *string                `json:"title" binding:"omitempty,min=2,max=255"`
	Description nullable.Field[string] `json:"description" binding:"omitempty,max=400"`
	Status      *string                `json:"status" binding:"omitempty,oneof=TODO DOING DONE"`
	Priority    *string                `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     nullable.Field[string] `json:"dueDate" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	taskID, ok := h.parseIDParam(c, "id", msgTaskNotFound)
	if !ok {
		return
	}

	var req updateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	var dueDate nullable.Field[time.Time]
	switch {
	case !req.DueDate.Set:
	case req.DueDate.Null:
		dueDate = nullable.Null[time.Time]()
	default:
		parsed, ok := parseDueDate(c, req.DueDate.Value)
		if !ok {
			return
		}
		dueDate = nullable.Of(parsed)
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		UserID:      userIDFromContext(c),
		TaskID:      taskID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     dueDate,
	})
	if err != nil {
		h.abortServiceError(c, err, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// parseDueDate parses a due date that already passed the datetime rule. It
// aborts the request with a dueDate issue if parsing still fails.
func parseDueDate(c *gin.Context, value string) (time.Time, bool) {
	dueDate, err := time.Parse(time.RFC3339, value)
	if err != nil {
		abort(c, newInvalidPayloadError([]fieldIssue{{
			Field:   "dueDate",
			Message: "must be an RFC 3339 timestamp",
		}}))
		return time.Time{}, false
	}
	return dueDate, true
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	taskID, ok := h.parseIDParam(c, "id", msgTaskNotFound)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, userIDFromContext(c), taskID)
	if err != nil {
		h.abortServiceError(c, err, "failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}
