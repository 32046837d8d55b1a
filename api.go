package builtup

import (
	"math"
	"time"

	"github.com/rotisserie/eris"
)

// 建成区指数（NBAI）计算公式
type Formula string

const (
	// ((SWIR2-SWIR1)/Green) / ((SWIR2+SWIR1)/Green)，Green为0时无值
	FormulaLiteral Formula = "literal"
	// (SWIR2-SWIR1) / (SWIR2+SWIR1)
	FormulaSimplified Formula = "simplified"
)

func ParseFormula(s string) (f Formula, err error) {
	switch f = Formula(s); f {
	case FormulaLiteral, FormulaSimplified:
	case "":
		f = FormulaLiteral
	default:
		err = eris.Wrapf(ErrInvalidOptions, "unknown formula %q", s)
	}
	return
}

// 引擎参数
type Options struct {
	Bands               BandSelection
	Formula             Formula
	NoData              float64 // 输出无值标记，须为NaN或在[-1,1]之外
	VegetationThreshold float64 // NDVI大于该值的像元被掩膜
	WaterThreshold      float64 // NDWI大于该值的像元被掩膜
	BlockRows           int     // 按行分块计算，每块行数
	SummarySamples      int     // 统计摘要最多采样的像元数
}

func DefaultOptions() Options {
	return Options{
		Bands:               Sentinel2Stack(),
		Formula:             FormulaLiteral,
		NoData:              DEFAULT_NODATA,
		VegetationThreshold: VegetationThreshold,
		WaterThreshold:      WaterThreshold,
		BlockRows:           DEFAULT_BLOCK_ROWS,
		SummarySamples:      SummaryMaxSamples,
	}
}

func (o Options) validate() error {
	if err := o.Bands.validate(); err != nil {
		return err
	}
	if _, err := ParseFormula(string(o.Formula)); err != nil {
		return err
	}
	if !math.IsNaN(o.NoData) && o.NoData >= -1 && o.NoData <= 1 {
		return eris.Wrapf(ErrInvalidOptions, "nodata %v overlaps index range [-1,1]", o.NoData)
	}
	if math.IsNaN(o.VegetationThreshold) || math.IsNaN(o.WaterThreshold) {
		return eris.Wrap(ErrInvalidOptions, "mask thresholds must be numbers")
	}
	if o.BlockRows <= 0 {
		return eris.Wrapf(ErrInvalidOptions, "block rows must be positive, got %d", o.BlockRows)
	}
	if o.SummarySamples < 0 {
		return eris.Wrapf(ErrInvalidOptions, "summary samples must not be negative, got %d", o.SummarySamples)
	}
	return nil
}

// 单次计算的像元统计
type Counts struct {
	Valid       int // 保留建成区指数的像元
	Vegetation  int // 被植被掩膜的像元
	Water       int // 在植被掩膜之后被水体掩膜的像元
	Degenerate  int // 指数分母为0等无法计算的像元
	InputNoData int // 输入波段为无值的像元
}

func (c *Counts) add(o Counts) {
	c.Valid += o.Valid
	c.Vegetation += o.Vegetation
	c.Water += o.Water
	c.Degenerate += o.Degenerate
	c.InputNoData += o.InputNoData
}

func (c Counts) Total() int {
	return c.Valid + c.Vegetation + c.Water + c.Degenerate + c.InputNoData
}

// 有效建成区指数的统计摘要
type Summary struct {
	Samples int
	Min     float64
	Max     float64
	Mean    float64
	Median  float64
	P90     float64
}

type Result struct {
	Input   string
	Output  string
	Width   int
	Height  int
	Formula Formula
	Counts
	Summary Summary
	Elapsed time.Duration
}
