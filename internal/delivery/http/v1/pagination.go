package v1

import (
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

// pageQuery is embedded into every list query. Zero values fall back to the
// endpoint's defaults.
type pageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

func (q pageQuery) page(defaultSize int) services.Page {
	return services.NewPage(q.Page, q.PageSize, defaultSize)
}

type pageResponse[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

func newPageResponse[S, T any](result *services.PageResult[S], convert func(*S) T) pageResponse[T] {
	items := make([]T, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, convert(&result.Items[i]))
	}
	return pageResponse[T]{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}
