package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wgdzlh/builtup"

	"github.com/airbusgeo/godal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 以args执行命令，返回标准输出
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := execute()
	return out.String(), err
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	conf := filepath.Join(dir, "builtup.yaml")
	require.NoError(t, os.WriteFile(conf, []byte(body), 0o644))
	return conf
}

func readMetrics(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(raw)
}

// 写入4x4的9波段影像，各像元G=100 R=200 NIR=150 SWIR1=300 SWIR2=150
func writeBuiltUpScene(t *testing.T, path string) {
	t.Helper()
	godal.RegisterAll()
	const w, h = 4, 4
	ds, err := godal.Create(godal.GTiff, path, 9, godal.UInt16, w, h)
	require.NoError(t, err)
	values := map[int]float64{
		builtup.BAND_GREEN: 100,
		builtup.BAND_RED:   200,
		builtup.BAND_NIR:   150,
		builtup.BAND_SWIR1: 300,
		builtup.BAND_SWIR2: 150,
	}
	for k, band := range ds.Bands() {
		v, ok := values[k+1]
		if !ok {
			v = 1
		}
		buf := make([]float64, w*h)
		for i := range buf {
			buf[i] = v
		}
		require.NoError(t, band.Write(0, 0, buf, w, h))
	}
	require.NoError(t, ds.Close())
}

func readRaster(t *testing.T, path string) []float64 {
	t.Helper()
	ds, err := godal.Open(path, godal.RasterOnly())
	require.NoError(t, err)
	defer ds.Close()
	st := ds.Structure()
	buf := make([]float64, st.SizeX*st.SizeY)
	require.NoError(t, ds.Bands()[0].Read(0, 0, buf, st.SizeX, st.SizeY))
	return buf
}

const selectManifest = `
products:
  - id: a
    title: S2A_MSIL2A_20180312T092021_N0206_R093_T34TFL_20180312T113320
    platform: Sentinel-2
    product_type: S2MSI2A
    sensing_date: 2018-03-12T09:20:21Z
    cloud_cover: 1.5
    size: 812345678
    path: past/a.SAFE
  - id: b
    title: S2A_MSIL2A_20180322T092021_N0206_R093_T34TFL_20180322T113320
    platform: Sentinel-2
    product_type: S2MSI2A
    sensing_date: 2018-03-22T09:20:21Z
    cloud_cover: 0.5
    size: 1000
    path: past/b.SAFE
`

func TestSelectCommand(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(selectManifest), 0o644))
	metricsFile := filepath.Join(dir, "builtup.prom")
	conf := writeConfig(t, dir, `
log:
  level: error
scene:
  manifest: `+manifest+`
  periods:
    - name: past
      start: "2018-03-01"
      end: "2018-04-01"
metrics:
  textfile: `+metricsFile+`
`)

	out, err := runCLI(t, "select", "--config", conf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "past\t34TFL\tS2A_MSIL2A_20180312"), lines[0])
	assert.Contains(t, readMetrics(t, metricsFile), `builtup_selections_total{period="past",status="ok"} 1`)
}

func TestSelectCommandNothingSelected(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(selectManifest), 0o644))
	metricsFile := filepath.Join(dir, "builtup.prom")
	conf := writeConfig(t, dir, `
log:
  level: error
scene:
  manifest: `+manifest+`
  periods:
    - name: select-empty
      start: "2019-03-01"
      end: "2019-04-01"
metrics:
  textfile: `+metricsFile+`
`)

	_, err := runCLI(t, "select", "--config", conf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no product selected")
	// 失败时同样写出指标
	assert.Contains(t, readMetrics(t, metricsFile), `builtup_selections_total{period="select-empty",status="error"} 1`)
}

func TestComputeCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "clipped-mos.tif")
	writeBuiltUpScene(t, in)
	outPath := filepath.Join(dir, "Built-Up", "adhoc", "built-up-area.tif")
	metricsFile := filepath.Join(dir, "builtup.prom")
	conf := writeConfig(t, dir, `
log:
  level: error
metrics:
  textfile: `+metricsFile+`
`)

	out, err := runCLI(t, "compute", "--config", conf, "--in", in, "--out", outPath,
		"--formula", "simplified", "--period", "compute-simplified")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "compute-simplified\t"+outPath+"\t4x4\t"), out)
	assert.Contains(t, out, "valid=16 vegetation=0 water=0 degenerate=0 nodata=0")
	assert.Contains(t, out, "mean=-0.3333")

	vals := readRaster(t, outPath)
	require.Len(t, vals, 16)
	for i, v := range vals {
		assert.InDelta(t, -1.0/3.0, v, 1e-12, "pixel %d", i)
	}
	assert.Contains(t, readMetrics(t, metricsFile), `builtup_runs_total{period="compute-simplified",status="ok"} 1`)

	_, err = runCLI(t, "compute", "--config", conf, "--in", in, "--out", outPath, "--formula", "ratio")
	assert.Error(t, err)
}

func TestRunCommandContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "clipped-mos.tif")
	writeBuiltUpScene(t, in)
	goodOut := filepath.Join(dir, "Built-Up", "Past", "built-up-area.tif")
	badOut := filepath.Join(dir, "Built-Up", "Now", "built-up-area.tif")
	metricsFile := filepath.Join(dir, "builtup.prom")
	conf := writeConfig(t, dir, `
log:
  level: error
engine:
  periods:
    - name: run-missing
      input: `+filepath.Join(dir, "missing.tif")+`
      output: `+badOut+`
    - name: run-good
      input: `+in+`
      output: `+goodOut+`
metrics:
  textfile: `+metricsFile+`
`)

	out, err := runCLI(t, "run", "--config", conf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 periods failed")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "run-good\t"+goodOut), lines[0])

	// 输出目录自动创建
	vals := readRaster(t, goodOut)
	assert.InDelta(t, -1.0/3.0, vals[0], 1e-12)
	_, statErr := os.Stat(badOut)
	assert.True(t, os.IsNotExist(statErr))

	metrics := readMetrics(t, metricsFile)
	assert.Contains(t, metrics, `builtup_runs_total{period="run-good",status="ok"} 1`)
	assert.Contains(t, metrics, `builtup_runs_total{period="run-missing",status="error"} 1`)
}
