package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type statusCountsResponse struct {
	Todo  int `json:"todo"`
	Doing int `json:"doing"`
	Done  int `json:"done"`
}

type dashboardSummaryResponse struct {
	ProjectCount int                  `json:"projectCount"`
	TaskCount    int                  `json:"taskCount"`
	ByStatus     statusCountsResponse `json:"byStatus"`
}

func (h *handlerImpl) HandleGetDashboardSummary(c *gin.Context) {
	summary, err := h.dashboard.GetSummary(c, userIDFromContext(c))
	if err != nil {
		h.abortServiceError(c, err, "failed to get dashboard summary")
		return
	}

	c.JSON(http.StatusOK, dashboardSummaryResponse{
		ProjectCount: summary.ProjectCount,
		TaskCount:    summary.TaskCount,
		ByStatus: statusCountsResponse{
			Todo:  summary.TodoCount,
			Doing: summary.DoingCount,
			Done:  summary.DoneCount,
		},
	})
}
