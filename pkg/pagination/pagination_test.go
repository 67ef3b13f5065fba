package pagination

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, Params{Page: 1, PageSize: DefaultPageSize}, Params{}.Normalize())
	assert.Equal(t, Params{Page: 3, PageSize: MaxPageSize}, Params{Page: 3, PageSize: 1000}.Normalize())
	assert.Equal(t, 20, Params{Page: 3, PageSize: 10}.Offset())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
}

func TestWindow(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, Window(2, 3))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, Window(3, 12))
	assert.Equal(t, []int{8, 9, 10, 11, 12}, Window(11, 12))
	assert.Equal(t, []int{8, 9, 10, 11, 12}, Window(10, 12))
	assert.Equal(t, []int{4, 5, 6, 7, 8}, Window(6, 12))
	assert.Equal(t, []int{}, Window(1, 0))
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(Params{Page: 2, PageSize: 10}, 25)
	assert.Equal(t, 3, m.TotalPages)
	assert.EqualValues(t, 11, m.From)
	assert.EqualValues(t, 20, m.To)

	last := NewMeta(Params{Page: 3, PageSize: 10}, 25)
	assert.EqualValues(t, 25, last.To)

	beyond := NewMeta(Params{Page: 9, PageSize: 10}, 25)
	assert.EqualValues(t, 0, beyond.From)
}

type row struct {
	Name  string
	Email string
	Seats int
}

func rows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row{Name: "Guest " + strconv.Itoa(i+1), Email: "g" + strconv.Itoa(i+1) + "@example.com", Seats: i%4 + 1}
	}
	return out
}

func cols(r row) []string {
	return []string{r.Name, r.Email, Column(r.Seats)}
}

func TestSlicePaginates(t *testing.T) {
	page, meta := Slice(rows(23), "", cols, Params{Page: 3, PageSize: 10})
	assert.Len(t, page, 3)
	assert.Equal(t, "Guest 21", page[0].Name)
	assert.Equal(t, 3, meta.TotalPages)
}

func TestSliceSearchResetsToFirstPage(t *testing.T) {
	page, meta := Slice(rows(23), "GUEST 2", cols, Params{Page: 3, PageSize: 10})
	// Guest 2 and Guest 20..23
	assert.Equal(t, 1, meta.Page)
	assert.EqualValues(t, 5, meta.Total)
	assert.Equal(t, "Guest 2", page[0].Name)
}

func TestSlicePastEndIsEmpty(t *testing.T) {
	page, meta := Slice(rows(5), "", cols, Params{Page: 4, PageSize: 10})
	assert.Empty(t, page)
	assert.EqualValues(t, 5, meta.Total)
}
