package model

import (
	"fmt"
	"math"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination содержит метаданные постраничной выдачи.
type Pagination struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// NewPagination вычисляет метаданные для страницы page размера pageSize при общем числе total.
func NewPagination(page, pageSize, total int) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = DefaultPage
	}
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

// Normalize подставляет значения по умолчанию и проверяет границы пагинации.
func (f *OrderFilter) Normalize() error {
	if f.Page == 0 {
		f.Page = DefaultPage
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
	if f.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1", ErrValidation)
	}
	if f.PageSize < 1 || f.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page_size must be between 1 and %d", ErrValidation, MaxPageSize)
	}
	if f.Status != nil && !f.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, *f.Status)
	}
	return nil
}

// Offset возвращает смещение первой записи страницы.
func (f OrderFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
