package repo

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrConflict      = errors.New("duplicate value for unique field")
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidState marks operations not allowed from the entity's
	// current status, e.g. delivering a non-finished order.
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrValidation   = errors.New("validation failed")
)

// PageQuery carries the shared pagination/sort parameters of the filter
// endpoints.
type PageQuery struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

func (q PageQuery) normalized() PageQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = 10
	}
	return q
}

// orderClause builds the ORDER BY from a whitelist. Sort fields arrive as
// raw request strings; anything unknown falls back to id rather than being
// interpolated into SQL.
func (q PageQuery) orderClause(allowed map[string]string) string {
	col, ok := allowed[q.SortBy]
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if strings.EqualFold(q.SortDir, "desc") {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s", col, dir)
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
