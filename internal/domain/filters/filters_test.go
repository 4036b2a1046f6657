package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortColumn(t *testing.T) {
	f := Filters{Sort: "-year", SortSafelist: []string{"id", "name", "year"}}
	assert.Equal(t, "year", f.SortColumn())
	assert.Equal(t, DescSort, f.SortDirection())

	f.Sort = "name"
	assert.Equal(t, "name", f.SortColumn())
	assert.Equal(t, AscSort, f.SortDirection())

	f.Sort = "password"
	assert.Panics(t, func() { f.SortColumn() })
}

func TestLimitOffset(t *testing.T) {
	f := Filters{Page: 3, PageSize: 20}
	assert.Equal(t, 20, f.Limit())
	assert.Equal(t, 40, f.Offset())

	f.Page = 1
	assert.Equal(t, 0, f.Offset())
}
