package pagination

import (
	"fmt"
	"strings"
)

const (
	// DefaultPageSize is used when a request does not ask for one.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any page may hold.
	MaxPageSize = 100
	// WindowSize is how many page numbers a pager shows at once.
	WindowSize = 5
)

// Params are 1-based page inputs from controllers.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps page and size into their valid ranges.
func (p Params) Normalize() Params {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Meta describes the page that was served.
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	Window     []int `json:"window"`
	From       int64 `json:"from"`
	To         int64 `json:"to"`
}

// NewMeta builds page metadata for total rows.
func NewMeta(p Params, total int64) Meta {
	p = p.Normalize()
	pages := TotalPages(total, p.PageSize)
	m := Meta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: pages,
		Window:     Window(p.Page, pages),
	}
	if total > 0 {
		m.From = int64(p.Offset()) + 1
		m.To = min(int64(p.Offset()+p.PageSize), total)
		if m.From > total {
			m.From, m.To = 0, 0
		}
	}
	return m
}

// TotalPages is ceil(total / size).
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Window returns up to WindowSize page numbers around current: the first
// pages near the start, the last pages near the end, current centered otherwise.
func Window(current, totalPages int) []int {
	if totalPages <= 0 {
		return []int{}
	}
	n := min(WindowSize, totalPages)
	var start int
	switch {
	case totalPages <= WindowSize || current <= 3:
		start = 1
	case current >= totalPages-2:
		start = totalPages - WindowSize + 1
	default:
		start = current - 2
	}
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// Slice serves one page of rows held in memory. Rows are kept when any of
// the columns returned by cols contains search, ignoring case. A non-empty
// search always serves from the first page.
func Slice[T any](rows []T, search string, cols func(T) []string, p Params) ([]T, Meta) {
	p = p.Normalize()
	needle := strings.ToLower(strings.TrimSpace(search))
	filtered := rows
	if needle != "" && cols != nil {
		filtered = make([]T, 0, len(rows))
		for _, row := range rows {
			for _, col := range cols(row) {
				if strings.Contains(strings.ToLower(col), needle) {
					filtered = append(filtered, row)
					break
				}
			}
		}
		p.Page = 1
	}
	total := int64(len(filtered))
	start := min(p.Offset(), len(filtered))
	end := min(start+p.PageSize, len(filtered))
	return filtered[start:end], NewMeta(p, total)
}

// Column formats any value for Slice's column matcher.
func Column(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
