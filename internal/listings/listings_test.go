package listings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCleansPrices(t *testing.T) {
	path := writeCSV(t, `id,price,latitude,longitude
1,"$1,250.00",52.52,13.405
2,€85,48.85,2.35
3,£ 99.50,51.5,-0.12
4,120,40.4,-3.7
`)

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, 1250.0, got[0].Price)
	assert.Equal(t, 85.0, got[1].Price)
	assert.Equal(t, 99.5, got[2].Price)
	assert.Equal(t, 120.0, got[3].Price)
	assert.Equal(t, 13.405, got[0].Lon)
	assert.Equal(t, 52.52, got[0].Lat)
}

func TestLoadSkipsInvalidRows(t *testing.T) {
	path := writeCSV(t, `price,latitude,longitude
100,52.0,13.0
0,52.0,13.0
-5,52.0,13.0
abc,52.0,13.0
100,0,13.0
100,52.0,0
100,junk,13.0
100,52.0
200,53.0,14.0
`)

	got, err := Load(path)
	require.NoError(t, err)

	// Only the first and last rows survive, in input order.
	require.Len(t, got, 2)
	assert.Equal(t, 100.0, got[0].Price)
	assert.Equal(t, 200.0, got[1].Price)
}

func TestLoadHeaderIsCaseInsensitiveAndReordered(t *testing.T) {
	path := writeCSV(t, `Longitude,name,PRICE,Latitude
13.0,flat,75,52.0
`)

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, 75.0, got[0].Price)
	assert.Equal(t, 13.0, got[0].Lon)
	assert.Equal(t, 52.0, got[0].Lat)
}

func TestLoadMissingColumn(t *testing.T) {
	path := writeCSV(t, `price,latitude
100,52.0
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadEmptyBody(t *testing.T) {
	path := writeCSV(t, "price,latitude,longitude\n")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}
