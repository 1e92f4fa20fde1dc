package services

import (
	"strconv"
	"strings"
)

const (
	DefaultProjectPageSize = 12
	DefaultTaskPageSize    = 24
	MaxPageSize            = 100
)

// Page is a normalized pagination request.
type Page struct {
	Number int
	Size   int
}

// NewPage fills in defaults and clamps the size to MaxPageSize. Numbers below
// one fall back to the first page.
func NewPage(number, size, defaultSize int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = defaultSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) Limit() int {
	return p.Size
}

type PageResult[T any] struct {
	Items      []T
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

func newPageResult[T any](items []T, total int, page Page) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PageResult[T]{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: TotalPages(total, page.Size),
	}
}

// TotalPages is max(1, ceil(total/size)).
func TotalPages(total, size int) int {
	if size < 1 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ProjectFilter narrows a project listing. A nil Archived matches both states.
type ProjectFilter struct {
	Archived *bool
	Search   string
}

// TaskFilter narrows a task listing. Empty strings add no constraint.
type TaskFilter struct {
	ProjectID string
	Status    string
	Priority  string
	Search    string
}

// queryBuilder accumulates positional arguments together with the SET and
// WHERE fragments that reference them.
type queryBuilder struct {
	args  []any
	sets  []string
	conds []string
}

func (b *queryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *queryBuilder) set(column string, v any) {
	b.sets = append(b.sets, column+" = "+b.arg(v))
}

func (b *queryBuilder) where(cond string) {
	b.conds = append(b.conds, cond)
}

// whereAnyLike adds a case-insensitive substring match over columns, joined
// with OR.
func (b *queryBuilder) whereAnyLike(term string, columns ...string) {
	pattern := b.arg(likePattern(term))
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = column + " ILIKE " + pattern
	}
	b.where("(" + strings.Join(parts, " OR ") + ")")
}

func (b *queryBuilder) setSQL() string {
	return strings.Join(b.sets, ", ")
}

func (b *queryBuilder) whereSQL() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conds, " AND ")
}

// paginate returns the LIMIT/OFFSET clause and a copy of the arguments
// extended with its values, leaving b usable for the count query.
func (b *queryBuilder) paginate(page Page) (string, []any) {
	args := make([]any, len(b.args), len(b.args)+2)
	copy(args, b.args)
	args = append(args, page.Limit(), page.Offset())
	clause := "LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))
	return clause, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a search term into a substring pattern in which the
// term's own wildcards match literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func normalizeSearch(search string) string {
	return strings.TrimSpace(search)
}

// buildProjectQuery scopes projects to their owner and applies the filter.
// Columns are referenced through the alias "p".
func buildProjectQuery(userID string, filter ProjectFilter) *queryBuilder {
	b := new(queryBuilder)
	b.where("p.owner_id = " + b.arg(userID))

	if filter.Archived != nil {
		b.where("p.archived = " + b.arg(*filter.Archived))
	}
	if search := normalizeSearch(filter.Search); search != "" {
		b.whereAnyLike(search, "p.name", "p.description")
	}
	return b
}

// taskScope selects the base set of a task listing. ownerID scopes to every
// project of a user; projectID narrows to one project. The per-project listing
// sets only projectID, after the owner has been verified.
type taskScope struct {
	ownerID   string
	projectID string
}

// buildTaskQuery applies the filter over tasks "t" joined with their project
// "p". Search covers the project name only when scoped by owner.
func buildTaskQuery(scope taskScope, filter TaskFilter) *queryBuilder {
	b := new(queryBuilder)
	if scope.ownerID != "" {
		b.where("p.owner_id = " + b.arg(scope.ownerID))
	}
	if scope.projectID != "" {
		b.where("t.project_id = " + b.arg(scope.projectID))
	}

	if filter.Status != "" {
		b.where("t.status = " + b.arg(filter.Status))
	}
	if filter.Priority != "" {
		b.where("t.priority = " + b.arg(filter.Priority))
	}
	if search := normalizeSearch(filter.Search); search != "" {
		columns := []string{"t.title", "t.description"}
		if scope.ownerID != "" {
			columns = append(columns, "p.name")
		}
		b.whereAnyLike(search, columns...)
	}
	return b
}
