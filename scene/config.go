package scene

import (
	"time"

	"github.com/wgdzlh/builtup/utils"

	"github.com/rotisserie/eris"
)

const (
	PLATFORM_S2       = "Sentinel-2"
	PRODUCT_TYPE_L2A  = "S2MSI2A"
	DefaultMinSize    = 200000000 // 小于该字节数的产品视为损坏
	DefaultCloudMin   = 0
	DefaultCloudMax   = 10
	PERIOD_PAST       = "past"
	PERIOD_CURRENT    = "current"
	UNIVERSAL_SRID    = 4326
	FullCoverageRatio = 1.0
)

var (
	ErrNoProduct     = eris.New("no product matches")
	ErrInvalidConfig = eris.New("invalid scene config")
	ErrManifest      = eris.New("invalid product manifest")
	ErrInvalidWKT    = eris.New("invalid WKT")
	ErrGdalRef       = eris.New("gdal spatial ref err")
)

// 检索时间段，End为空或NOW表示至今
type Period struct {
	Name  string `yaml:"name" mapstructure:"name"`
	Start string `yaml:"start" mapstructure:"start"`
	End   string `yaml:"end" mapstructure:"end"`
}

func (p Period) Range(now time.Time) (start, end time.Time, err error) {
	if p.Start == "" {
		err = eris.Wrapf(ErrInvalidConfig, "period %s has no start", p.Name)
		return
	}
	if start, err = utils.ParseDate(p.Start, now); err != nil {
		err = eris.Wrapf(ErrInvalidConfig, "period %s start %q", p.Name, p.Start)
		return
	}
	if end, err = utils.ParseDate(p.End, now); err != nil {
		err = eris.Wrapf(ErrInvalidConfig, "period %s end %q", p.Name, p.End)
		return
	}
	if end.Before(start) {
		err = eris.Wrapf(ErrInvalidConfig, "period %s ends before it starts", p.Name)
	}
	return
}

// 影像检索参数
type Config struct {
	Tiles       []string `yaml:"tiles" mapstructure:"tiles"`
	Periods     []Period `yaml:"periods" mapstructure:"periods"`
	Platform    string   `yaml:"platform" mapstructure:"platform"`
	ProductType string   `yaml:"product_type" mapstructure:"product_type"`
	CloudMin    float64  `yaml:"cloud_min" mapstructure:"cloud_min"`
	CloudMax    float64  `yaml:"cloud_max" mapstructure:"cloud_max"`
	MinSize     int64    `yaml:"min_size" mapstructure:"min_size"`
	Manifest    string   `yaml:"manifest" mapstructure:"manifest"`
	AOI         string   `yaml:"aoi" mapstructure:"aoi"`                   // 研究区WKT（EPSG:4326），可选
	MinCoverage float64  `yaml:"min_coverage" mapstructure:"min_coverage"` // 产品覆盖研究区的最小比例
}

// 塞萨洛尼基北部分幅，2018年春季与秋季
func DefaultConfig() Config {
	return Config{
		Tiles: []string{"34TFL"},
		Periods: []Period{
			{Name: PERIOD_PAST, Start: "2018-03-01", End: "2018-04-01"},
			{Name: PERIOD_CURRENT, Start: "2018-11-01", End: utils.DATE_NOW},
		},
		Platform:    PLATFORM_S2,
		ProductType: PRODUCT_TYPE_L2A,
		CloudMin:    DefaultCloudMin,
		CloudMax:    DefaultCloudMax,
		MinSize:     DefaultMinSize,
	}
}

func (c Config) Validate() error {
	if len(c.Tiles) == 0 {
		return eris.Wrap(ErrInvalidConfig, "no tiles")
	}
	if len(c.Periods) == 0 {
		return eris.Wrap(ErrInvalidConfig, "no periods")
	}
	if c.CloudMin < 0 || c.CloudMax > 100 || c.CloudMin > c.CloudMax {
		return eris.Wrapf(ErrInvalidConfig, "cloud cover bounds [%v, %v]", c.CloudMin, c.CloudMax)
	}
	if c.MinSize < 0 {
		return eris.Wrapf(ErrInvalidConfig, "min size %d", c.MinSize)
	}
	if c.MinCoverage < 0 || c.MinCoverage > FullCoverageRatio {
		return eris.Wrapf(ErrInvalidConfig, "min coverage %v", c.MinCoverage)
	}
	if c.MinCoverage > 0 && c.AOI == "" {
		return eris.Wrap(ErrInvalidConfig, "min coverage set without aoi")
	}
	names := map[string]bool{}
	for _, p := range c.Periods {
		if p.Name == "" || names[p.Name] {
			return eris.Wrapf(ErrInvalidConfig, "period name %q empty or duplicated", p.Name)
		}
		names[p.Name] = true
		if _, _, err := p.Range(time.Now()); err != nil {
			return err
		}
	}
	return nil
}
