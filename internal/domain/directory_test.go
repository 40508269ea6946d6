package domain_test

import (
	"testing"

	"github.com/andy/contactbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populated(t *testing.T, names ...string) *domain.Directory {
	t.Helper()
	d := domain.NewDirectory()
	for _, n := range names {
		d.AddRecord(mustRecord(t, n, "", ""))
	}
	return d
}

func pageNames(p domain.Page) []string {
	out := make([]string, 0, len(p))
	for _, r := range p {
		out = append(out, r.Name().Value())
	}
	return out
}

func TestDirectory_AddGetRemove(t *testing.T) {
	d := populated(t, "Anna", "Boris")
	assert.Equal(t, 2, d.Len())
	assert.True(t, d.Has("Anna"))

	r, err := d.Get("Boris")
	require.NoError(t, err)
	assert.Equal(t, "Boris", r.Name().Value())

	_, err = d.Get("Clara")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)

	require.NoError(t, d.Remove("Anna"))
	assert.Equal(t, []string{"Boris"}, d.Names())
	require.ErrorIs(t, d.Remove("Anna"), domain.ErrRecordNotFound)
}

func TestDirectory_AddRecordOverwritesInPlace(t *testing.T) {
	d := populated(t, "Anna", "Boris", "Clara")

	d.AddRecord(mustRecord(t, "Boris", "555", ""))

	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"Anna", "Boris", "Clara"}, d.Names())
	r, err := d.Get("Boris")
	require.NoError(t, err)
	assert.Equal(t, []string{"555"}, r.Phones())
}

func TestDirectory_Clone(t *testing.T) {
	d := populated(t, "Anna", "Boris")
	c := d.Clone()

	require.NoError(t, c.Remove("Anna"))
	c.AddRecord(mustRecord(t, "Clara", "", ""))
	r, err := c.Get("Boris")
	require.NoError(t, err)
	r.AddPhone(mustPhone(t, "555"))

	assert.Equal(t, []string{"Anna", "Boris"}, d.Names())
	assert.Equal(t, []string{"Boris", "Clara"}, c.Names())
	orig, err := d.Get("Boris")
	require.NoError(t, err)
	assert.Empty(t, orig.Phones())
}

func TestDirectory_AllInInsertionOrder(t *testing.T) {
	d := populated(t, "Clara", "Anna", "Boris")

	var got []string
	for name, r := range d.All() {
		assert.Equal(t, name, r.Name().Value())
		got = append(got, name)
	}
	assert.Equal(t, []string{"Clara", "Anna", "Boris"}, got)
	assert.Len(t, d.Records(), 3)
}

func TestDirectory_At(t *testing.T) {
	d := populated(t, "Anna", "Boris")

	r, err := d.At(2)
	require.NoError(t, err)
	assert.Equal(t, "Boris", r.Name().Value())

	for _, idx := range []int{0, 3, -1} {
		_, err := d.At(idx)
		require.ErrorIs(t, err, domain.ErrSelectionOutOfRange)
	}
}

func TestDirectory_Paginate(t *testing.T) {
	d := populated(t, "A", "B", "C", "D", "E")

	pages, err := d.Paginate(2)
	require.NoError(t, err)

	var got [][]string
	for p := range pages {
		got = append(got, pageNames(p))
	}
	assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}, {"E"}}, got)

	// restartable: a second pass starts from the beginning
	var again int
	for range pages {
		again++
	}
	assert.Equal(t, 3, again)
}

func TestDirectory_PaginateSizes(t *testing.T) {
	tests := []struct {
		name  string
		count int
		size  int
		want  []int
	}{
		{"empty", 0, 3, nil},
		{"exact fit", 4, 2, []int{2, 2}},
		{"single page", 3, 10, []int{3}},
		{"size one", 3, 1, []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := domain.NewDirectory()
			for i := 0; i < tt.count; i++ {
				d.AddRecord(mustRecord(t, string(rune('A'+i)), "", ""))
			}
			pages, err := d.Paginate(tt.size)
			require.NoError(t, err)

			var sizes []int
			for p := range pages {
				require.NotEmpty(t, p)
				sizes = append(sizes, len(p))
			}
			assert.Equal(t, tt.want, sizes)
		})
	}
}

func TestDirectory_PaginateEarlyStop(t *testing.T) {
	d := populated(t, "A", "B", "C", "D", "E")
	pages, err := d.Paginate(2)
	require.NoError(t, err)

	seen := 0
	for range pages {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestDirectory_PaginateInvalidSize(t *testing.T) {
	d := populated(t, "A")
	for _, size := range []int{0, -2} {
		_, err := d.Paginate(size)
		require.ErrorIs(t, err, domain.ErrInvalidPageSize)
	}
}
