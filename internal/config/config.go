package config

import (
	"strings"

	"github.com/wgdzlh/builtup"
	"github.com/wgdzlh/builtup/scene"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 全部配置
type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Scene   scene.Config  `yaml:"scene" mapstructure:"scene"`
	Engine  EngineConfig  `yaml:"engine" mapstructure:"engine"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// 日志配置
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// 建成区引擎参数及各时间段的输入输出影像
type EngineConfig struct {
	Formula             string                `yaml:"formula" mapstructure:"formula"`
	NoData              float64               `yaml:"nodata" mapstructure:"nodata"`
	VegetationThreshold float64               `yaml:"vegetation_threshold" mapstructure:"vegetation_threshold"`
	WaterThreshold      float64               `yaml:"water_threshold" mapstructure:"water_threshold"`
	BlockRows           int                   `yaml:"block_rows" mapstructure:"block_rows"`
	SummarySamples      int                   `yaml:"summary_samples" mapstructure:"summary_samples"`
	Bands               builtup.BandSelection `yaml:"bands" mapstructure:"bands"`
	Periods             []PeriodRaster        `yaml:"periods" mapstructure:"periods"`
}

// 时间段镶嵌影像到建成区输出的映射
type PeriodRaster struct {
	Name   string `yaml:"name" mapstructure:"name"`
	Input  string `yaml:"input" mapstructure:"input"`
	Output string `yaml:"output" mapstructure:"output"`
}

// 指标输出，textfile为空时不写出
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

func (c EngineConfig) Options() (builtup.Options, error) {
	f, err := builtup.ParseFormula(c.Formula)
	if err != nil {
		return builtup.Options{}, err
	}
	return builtup.Options{
		Bands:               c.Bands,
		Formula:             f,
		NoData:              c.NoData,
		VegetationThreshold: c.VegetationThreshold,
		WaterThreshold:      c.WaterThreshold,
		BlockRows:           c.BlockRows,
		SummarySamples:      c.SummarySamples,
	}, nil
}

// 从配置文件与BUILTUP_前缀的环境变量读取配置，path为空时查找当前目录下的builtup.yaml
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("builtup")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BUILTUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	opts := builtup.DefaultOptions()
	sc := scene.DefaultConfig()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("engine.formula", string(opts.Formula))
	v.SetDefault("engine.nodata", opts.NoData)
	v.SetDefault("engine.vegetation_threshold", opts.VegetationThreshold)
	v.SetDefault("engine.water_threshold", opts.WaterThreshold)
	v.SetDefault("engine.block_rows", opts.BlockRows)
	v.SetDefault("engine.summary_samples", opts.SummarySamples)
	v.SetDefault("engine.bands.green", opts.Bands.Green)
	v.SetDefault("engine.bands.red", opts.Bands.Red)
	v.SetDefault("engine.bands.nir", opts.Bands.NIR)
	v.SetDefault("engine.bands.swir1", opts.Bands.SWIR1)
	v.SetDefault("engine.bands.swir2", opts.Bands.SWIR2)
	v.SetDefault("engine.periods", []map[string]any{
		{"name": scene.PERIOD_PAST, "input": "Clipped-Mos/Past/clipped-mos.tif", "output": "Built-Up/Past/built-up-area.tif"},
		{"name": scene.PERIOD_CURRENT, "input": "Clipped-Mos/Now/clipped-mos.tif", "output": "Built-Up/Now/built-up-area.tif"},
	})

	periods := make([]map[string]any, len(sc.Periods))
	for i, p := range sc.Periods {
		periods[i] = map[string]any{"name": p.Name, "start": p.Start, "end": p.End}
	}
	v.SetDefault("scene.tiles", sc.Tiles)
	v.SetDefault("scene.periods", periods)
	v.SetDefault("scene.platform", sc.Platform)
	v.SetDefault("scene.product_type", sc.ProductType)
	v.SetDefault("scene.cloud_min", sc.CloudMin)
	v.SetDefault("scene.cloud_max", sc.CloudMax)
	v.SetDefault("scene.min_size", sc.MinSize)
	v.SetDefault("scene.manifest", "Downloads/manifest.yaml")
	v.SetDefault("scene.min_coverage", 0)
}

// 初始化zap全局logger
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
