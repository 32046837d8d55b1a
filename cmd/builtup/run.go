package main

import (
	"os"
	"path/filepath"

	"github.com/wgdzlh/builtup"
	"github.com/wgdzlh/builtup/log"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute built-up rasters for every configured period",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := cfg.Engine.Options()
		if err != nil {
			return err
		}
		e, err := builtup.NewEngine(opts)
		if err != nil {
			return err
		}
		periods := cfg.Engine.Periods
		if len(periods) == 0 {
			return eris.New("no engine periods configured")
		}
		failed := 0
		for _, p := range periods {
			if e := ensureOutputDir(p.Output); e != nil {
				failed++
				recorder.ObserveRun(p.Name, builtup.Result{}, e)
				log.Error("period failed", zap.String("period", p.Name), zap.Error(e))
				continue
			}
			res, err := e.Run(p.Input, p.Output)
			recorder.ObserveRun(p.Name, res, err)
			if err != nil {
				failed++
				log.Error("period failed", zap.String("period", p.Name), zap.Error(err))
				continue
			}
			printResult(cmd, p.Name, res)
		}
		if failed > 0 {
			return eris.Errorf("%d of %d periods failed", failed, len(periods))
		}
		return nil
	},
}

// 输出目录不存在时创建
func ensureOutputDir(out string) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return eris.Wrapf(err, "create output dir for %s", out)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
