package builtup

import "math"

func isNoData(v, nodata float64) bool {
	return v == nodata || (math.IsNaN(nodata) && math.IsNaN(v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// 有效指数值落在[-1,1]内，负反射率等异常输入可能越界
func inRange(v float64) bool {
	return finite(v) && v >= -1 && v <= 1
}

// 归一化差值 (a-b)/(a+b)，分母为0或结果不在[-1,1]内时ok为false
func normDiff(a, b float64) (v float64, ok bool) {
	s := a + b
	if s == 0 {
		return
	}
	v = (a - b) / s
	ok = inRange(v)
	return
}

func nbai(green, swir1, swir2 float64, f Formula) (v float64, ok bool) {
	if f == FormulaSimplified {
		return normDiff(swir2, swir1)
	}
	if green == 0 {
		return
	}
	num := (swir2 - swir1) / green
	den := (swir2 + swir1) / green
	if den == 0 {
		return
	}
	v = num / den
	ok = inRange(v)
	return
}

func normDiffGrid(a, b []float64, nodata float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		if v, ok := normDiff(a[i], b[i]); ok {
			out[i] = v
		} else {
			out[i] = nodata
		}
	}
	return out
}

// 水体指数 NDWI = (NIR-SWIR1)/(NIR+SWIR1)
func WaterIndex(b *Bands, nodata float64) []float64 {
	return normDiffGrid(b.NIR, b.SWIR1, nodata)
}

// 植被指数 NDVI = (NIR-Red)/(NIR+Red)
func VegetationIndex(b *Bands, nodata float64) []float64 {
	return normDiffGrid(b.NIR, b.Red, nodata)
}

// 建成区指数 NBAI
func BuiltUpIndex(b *Bands, f Formula, nodata float64) []float64 {
	out := make([]float64, b.Len())
	for i := range out {
		if v, ok := nbai(b.Green[i], b.SWIR1[i], b.SWIR2[i], f); ok {
			out[i] = v
		} else {
			out[i] = nodata
		}
	}
	return out
}
