package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lueurxax/media-dashboard/internal/core/domain"
)

func TestTable_PickLists(t *testing.T) {
	table := NewTable(sampleArticles())

	assert.Equal(t, []string{"Politics", "Sports", "Tech"}, table.Categories())
	assert.Equal(t, []string{"Ann", "Bob"}, table.Secondaries())
	assert.Equal(t, []string{All, "Politics", "Sports", "Tech"}, WithAll(table.Categories()))
}

func TestTable_DateBounds(t *testing.T) {
	table := NewTable(sampleArticles())

	earliest, latest, ok := table.DateBounds()

	assert.True(t, ok)
	assert.Equal(t, day(2023, 5, 1), earliest)
	assert.Equal(t, day(2023, 7, 2), latest)
}

func TestTable_Empty(t *testing.T) {
	table := Empty[domain.VideoRecord]()

	_, _, ok := table.DateBounds()

	assert.False(t, ok)
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Categories())
	assert.Empty(t, table.Filter(Criteria{Category: "1"}))
	assert.Empty(t, table.Filter(Criteria{}))
}
