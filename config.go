package builtup

import "math"

const (
	// 哨兵二号L2A堆叠影像中的波段次序（从1开始）
	BAND_GREEN = 2 // B03
	BAND_RED   = 3 // B04
	BAND_NIR   = 7 // B08
	BAND_SWIR1 = 8 // B11
	BAND_SWIR2 = 9 // B12

	DEFAULT_NODATA     = -9999.0
	DEFAULT_BLOCK_ROWS = 256

	VegetationThreshold = 0.0
	WaterThreshold      = 0.5

	SummaryMaxSamples = 1 << 20
	SummaryPercentile = 90
)

var (
	outputCreateOpts = []string{"TILED=YES", "COMPRESS=LZW", "PREDICTOR=3"}

	nan = math.NaN()
)
