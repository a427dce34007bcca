package summary

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogdash/internal/catalog"
)

const csvFixture = `show_id,type,title,release_year,date_added,rating
s1,Movie,Alpha,2000,"September 25, 2021",PG
s2,TV Show,Beta,2010,"January 1, 2020",
s3,Movie,Gamma,oops,,TV-MA
s4,Movie,Delta,2020,"March 3, 2021",R
`

func fixture(t *testing.T, csv string) *catalog.Table {
	t.Helper()
	raw, err := catalog.ReadRaw(context.Background(), "fixture.csv", strings.NewReader(csv))
	require.NoError(t, err)
	return catalog.Normalize(raw)
}

func TestPreview(t *testing.T) {
	tbl := fixture(t, csvFixture)

	p := Preview(tbl, 2)
	assert.Equal(t, []string{"show_id", "type", "title", "release_year", "date_added", "rating", "year_added"}, p.Columns)
	require.Len(t, p.Rows, 2)
	assert.Equal(t, []catalog.Optional[string]{
		catalog.Some("s1"), catalog.Some("Movie"), catalog.Some("Alpha"), catalog.Some("2000"),
		catalog.Some("2021-09-25"), catalog.Some("PG"), catalog.Some("2021"),
	}, p.Rows[0])
	assert.Equal(t, catalog.None[string](), p.Rows[1][5])

	assert.Len(t, Preview(tbl, 50).Rows, 4)
	assert.Empty(t, Preview(tbl, -1).Rows)
}

func TestShape(t *testing.T) {
	assert.Equal(t, TableShape{Rows: 4, Columns: 7}, Shape(fixture(t, csvFixture)))
}

func TestDescribe(t *testing.T) {
	stats := Describe(fixture(t, csvFixture))
	require.Len(t, stats, 2)

	ry := stats[0]
	assert.Equal(t, "release_year", ry.Column)
	assert.Equal(t, 3, ry.Count)
	assert.InDelta(t, 2010.0, ry.Mean.Value, 1e-9)
	assert.InDelta(t, 10.0, ry.Std.Value, 1e-9)
	assert.Equal(t, catalog.Some(2000.0), ry.Min)
	assert.Equal(t, catalog.Some(2005.0), ry.P25)
	assert.Equal(t, catalog.Some(2010.0), ry.P50)
	assert.Equal(t, catalog.Some(2015.0), ry.P75)
	assert.Equal(t, catalog.Some(2020.0), ry.Max)

	ya := stats[1]
	assert.Equal(t, "year_added", ya.Column)
	assert.Equal(t, 3, ya.Count)
	assert.Equal(t, catalog.Some(2020.0), ya.Min)
	assert.Equal(t, catalog.Some(2021.0), ya.Max)
}

func TestDescribeRawNumericColumns(t *testing.T) {
	stats := Describe(fixture(t, "title,score,note\nA,1.5,x\nB,,2\nC,2.5,\n"))
	require.Len(t, stats, 1)

	assert.Equal(t, "score", stats[0].Column)
	assert.Equal(t, 2, stats[0].Count)
	assert.Equal(t, catalog.Some(2.0), stats[0].Mean)
}

func TestDescribeSparseColumns(t *testing.T) {
	stats := Describe(fixture(t, "title,release_year\nA,1999\nB,\n"))
	require.Len(t, stats, 1)

	st := stats[0]
	assert.Equal(t, 1, st.Count)
	assert.Equal(t, catalog.Some(1999.0), st.Mean)
	assert.False(t, st.Std.Valid)

	empty := Describe(fixture(t, "title,release_year\nA,\n"))
	require.Len(t, empty, 1)
	assert.Equal(t, 0, empty[0].Count)
	assert.False(t, empty[0].Mean.Valid)
}
