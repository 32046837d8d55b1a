package main

import (
	"os"

	"github.com/wgdzlh/builtup/internal/config"
	"github.com/wgdzlh/builtup/internal/metrics"
	"github.com/wgdzlh/builtup/log"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg      *config.Config
	cfgFile  string
	recorder = metrics.NewRecorder()
)

var rootCmd = &cobra.Command{
	Use:   "builtup",
	Short: "Built-up area extraction from Sentinel-2 scenes",
	Long:  "Selects the least cloudy Sentinel-2 L2A product per tile and period, and derives built-up area rasters masked for vegetation and water.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./builtup.yaml)")
}

// 执行命令，无论成功与否都写出指标并刷新日志
func execute() error {
	err := rootCmd.Execute()
	if cfg != nil && cfg.Metrics.Textfile != "" {
		if e := recorder.WriteTextfile(cfg.Metrics.Textfile); e != nil {
			log.Error("write metrics failed", zap.Error(e))
		}
	}
	log.Sync()
	return err
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
