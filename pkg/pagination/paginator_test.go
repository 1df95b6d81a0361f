package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-3", 1},
		{"2", 2},
		{" 7 ", 7},
		{"99", 99},
		{"last", LastPage},
		{"LAST", LastPage},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePage(tt.raw))
		})
	}
}

func TestPaginate_ElevenItemsFirstPage(t *testing.T) {
	p := Paginate(seq(11), 10, 1)

	assert.Len(t, p.Items, 10)
	assert.Equal(t, 11, p.Count)
	assert.Equal(t, 2, p.NumPages)
	assert.True(t, p.HasNext)
	assert.False(t, p.HasPrevious)
	assert.True(t, p.HasOtherPages)
	assert.Equal(t, 1, p.StartIndex)
	assert.Equal(t, 10, p.EndIndex)
}

func TestPaginate_TwelveItemsSecondPage(t *testing.T) {
	items := seq(12)
	p := Paginate(items, 10, 2)

	assert.Equal(t, items[10:], p.Items)
	assert.Equal(t, 10, p.Start)
	assert.Equal(t, 12, p.End)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrevious)
}

func TestPaginate_Clamps(t *testing.T) {
	items := seq(25)

	tests := []struct {
		name   string
		page   int
		number int
		first  int
	}{
		{"beyond last", 99, 3, 21},
		{"last marker", LastPage, 3, 21},
		{"zero", 0, 1, 1},
		{"negative", -3, 1, 1},
		{"parsed garbage", ParsePage("abc"), 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, 10, tt.page)
			assert.Equal(t, tt.number, p.Number)
			assert.Equal(t, tt.first, p.Items[0])
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate([]string{}, 10, 5)

	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.NumPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrevious)
	assert.False(t, p.HasOtherPages)
	assert.Zero(t, p.StartIndex)
	assert.Zero(t, p.EndIndex)
}

func TestPaginate_NonPositivePerPage(t *testing.T) {
	p := Paginate(seq(3), 0, 2)

	assert.Equal(t, 1, p.PerPage)
	assert.Equal(t, []int{2}, p.Items)
	assert.Equal(t, 3, p.NumPages)
}
