package builtup

import (
	"github.com/rotisserie/eris"
)

// 语义波段到影像波段序号（从1开始）的映射
type BandSelection struct {
	Green int `yaml:"green" mapstructure:"green"`
	Red   int `yaml:"red" mapstructure:"red"`
	NIR   int `yaml:"nir" mapstructure:"nir"`
	SWIR1 int `yaml:"swir1" mapstructure:"swir1"`
	SWIR2 int `yaml:"swir2" mapstructure:"swir2"`
}

func Sentinel2Stack() BandSelection {
	return BandSelection{
		Green: BAND_GREEN,
		Red:   BAND_RED,
		NIR:   BAND_NIR,
		SWIR1: BAND_SWIR1,
		SWIR2: BAND_SWIR2,
	}
}

var bandNames = [5]string{"green", "red", "nir", "swir1", "swir2"}

func (s BandSelection) indices() [5]int {
	return [5]int{s.Green, s.Red, s.NIR, s.SWIR1, s.SWIR2}
}

// 影像至少需要的波段数
func (s BandSelection) MinBands() (n int) {
	for _, i := range s.indices() {
		if i > n {
			n = i
		}
	}
	return
}

func (s BandSelection) validate() error {
	seen := map[int]string{}
	for k, i := range s.indices() {
		if i <= 0 {
			return eris.Wrapf(ErrBandSelection, "%s band index %d", bandNames[k], i)
		}
		if other, ok := seen[i]; ok {
			return eris.Wrapf(ErrBandSelection, "%s and %s share band %d", other, bandNames[k], i)
		}
		seen[i] = bandNames[k]
	}
	return nil
}

// 校验波段选择与影像波段数
func (s BandSelection) Validate(count int) error {
	if err := s.validate(); err != nil {
		return err
	}
	if need := s.MinBands(); count < need {
		return eris.Wrapf(ErrBandCount, "need %d bands, got %d", need, count)
	}
	return nil
}

// 同一行块内的五个波段，按行优先排列，输入无值的样本为NaN
type Bands struct {
	Width  int
	Height int
	Green  []float64
	Red    []float64
	NIR    []float64
	SWIR1  []float64
	SWIR2  []float64
}

func NewBands(width, height int) *Bands {
	n := width * height
	return &Bands{
		Width:  width,
		Height: height,
		Green:  make([]float64, n),
		Red:    make([]float64, n),
		NIR:    make([]float64, n),
		SWIR1:  make([]float64, n),
		SWIR2:  make([]float64, n),
	}
}

func (b *Bands) Len() int {
	return b.Width * b.Height
}

func (b *Bands) slices() [5][]float64 {
	return [5][]float64{b.Green, b.Red, b.NIR, b.SWIR1, b.SWIR2}
}
