package scene

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
products:
  - id: 7a1c
    title: S2A_MSIL2A_20180305T092021_N0206_R093_T34TFL_20180305T113320
    platform: Sentinel-2
    product_type: S2MSI2A
    sensing_date: 2018-03-05T09:20:21Z
    ingestion_date: 2018-03-05T14:02:11Z
    cloud_cover: 3.2
    size: 812345678
    path: past/T34TFL_20180305.SAFE
  - id: 9b2d
    title: S2B_MSIL2A_20181203T092349_N0211_R093_T34TFK_20181203T111912
    platform: Sentinel-2
    product_type: S2MSI2A
    sensing_date: 2018-12-03T09:23:49Z
    cloud_cover: 0.4
    size: 790000000
    path: /data/now/T34TFK_20181203.SAFE
`

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, testManifest)
	c, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, c.products, 2)

	p := c.products[0]
	assert.Equal(t, "34TFL", p.Tile)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "past/T34TFL_20180305.SAFE"), p.Path)
	assert.Equal(t, time.Date(2018, 3, 5, 14, 2, 11, 0, time.UTC), p.IngestionDate)
	assert.InDelta(t, 3.2, p.CloudCover, 1e-9)

	q := c.products[1]
	assert.Equal(t, "34TFK", q.Tile)
	assert.Equal(t, q.SensingDate, q.IngestionDate)
	assert.Equal(t, "/data/now/T34TFK_20181203.SAFE", q.Path)
}

func TestLoadManifestErrors(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadManifest(writeManifest(t, "products: [oops"))
	assert.True(t, eris.Is(err, ErrManifest))

	_, err = LoadManifest(writeManifest(t, "products:\n  - title: no-id\n"))
	assert.True(t, eris.Is(err, ErrManifest))
}

func TestManifestQuery(t *testing.T) {
	c, err := LoadManifest(writeManifest(t, testManifest))
	require.NoError(t, err)
	ctx := context.Background()

	ps, err := c.Query(ctx, Query{Tile: "t34tfl", CloudMax: 10})
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "7a1c", ps[0].ID)

	ps, err = c.Query(ctx, Query{CloudMax: 1})
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "9b2d", ps[0].ID)

	ps, err = c.Query(ctx, Query{CloudMax: 100, Start: day(2018, 11, 1), End: day(2019, 1, 1)})
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "9b2d", ps[0].ID)

	ps, err = c.Query(ctx, Query{CloudMax: 100, ProductType: "S2MSI1C"})
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestTileFromTitle(t *testing.T) {
	assert.Equal(t, "34TFL", tileFromTitle("S2A_MSIL2A_20180305T092021_N0206_R093_T34TFL_20180305T113320"))
	assert.Equal(t, "", tileFromTitle("LC08_L1TP_184032_20180305"))
}
