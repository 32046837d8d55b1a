package scene

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAOI = "POLYGON((22.8 40.6, 22.8 40.8, 23.0 40.8, 23.0 40.6, 22.8 40.6))"

func TestFootprintsCoverage(t *testing.T) {
	f, err := NewFootprints(testAOI)
	require.NoError(t, err)
	defer f.Destroy()

	ratio, err := f.Coverage("POLYGON((22.0 40.0, 22.0 41.5, 24.0 41.5, 24.0 40.0, 22.0 40.0))")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ratio, 1e-9)

	ratio, err = f.Coverage("POLYGON((22.9 40.0, 22.9 41.5, 24.0 41.5, 24.0 40.0, 22.9 40.0))")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ratio, 1e-9)

	ratio, err = f.Coverage("POLYGON((10 10, 10 11, 11 11, 11 10, 10 10))")
	require.NoError(t, err)
	assert.Zero(t, ratio)

	_, err = f.Coverage("POLYGON((broken")
	assert.True(t, eris.Is(err, ErrInvalidWKT))
}

func TestNewFootprintsInvalid(t *testing.T) {
	_, err := NewFootprints("not wkt")
	assert.True(t, eris.Is(err, ErrInvalidWKT))
}

func TestSelectWithCoverage(t *testing.T) {
	partial := product("partial", day(2018, 3, 4), 0.1, 700000000)
	partial.Footprint = "POLYGON((22.9 40.0, 22.9 41.5, 24.0 41.5, 24.0 40.0, 22.9 40.0))"
	full := product("full", day(2018, 3, 8), 2.0, 700000000)
	full.Footprint = "POLYGON((22.0 40.0, 22.0 41.5, 24.0 41.5, 24.0 40.0, 22.0 40.0))"
	bad := product("bad", day(2018, 3, 9), 0, 700000000)

	cfg := DefaultConfig()
	cfg.AOI = testAOI
	cfg.MinCoverage = 0.9
	s, err := NewSelector(NewManifestCatalog(partial, full, bad), cfg, WithClock(testNow))
	require.NoError(t, err)
	defer s.Close()

	best, err := s.Select(context.Background(), "34TFL", cfg.Periods[0])
	require.NoError(t, err)
	assert.Equal(t, "full", best.ID)
}
