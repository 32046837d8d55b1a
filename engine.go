package builtup

import (
	"time"

	"github.com/wgdzlh/builtup/log"
	"github.com/wgdzlh/builtup/utils"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// 建成区计算引擎，各次Run之间不共享状态
type Engine struct {
	opts   Options
	logTag string
}

func NewEngine(opts Options) (*Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Formula == "" {
		opts.Formula = FormulaLiteral
	}
	return &Engine{
		opts:   opts,
		logTag: "Engine:",
	}, nil
}

// 读取in影像，计算建成区指数并掩膜植被、水体，输出单波段影像到out
func (e *Engine) Run(in, out string) (res Result, err error) {
	start := time.Now()
	res = Result{Input: in, Output: out, Formula: e.opts.Formula}
	log.Info(e.logTag+"start built-up run", zap.String("in", in), zap.String("out", out), zap.String("formula", string(e.opts.Formula)))
	if utils.SameFile(in, out) {
		err = eris.Wrapf(ErrSamePath, "%s", out)
		return
	}
	scene, err := OpenScene(in, e.opts.Bands)
	if err != nil {
		return
	}
	defer scene.Close()
	res.Width, res.Height = scene.Width, scene.Height

	dst, err := createOutput(out, scene, e.opts.NoData)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			dst.abort()
		}
	}()

	var (
		b     *Bands
		block []float64
		c     Counts
		rows  = scene.blockRows(e.opts.BlockRows)
		smp   = newSampler(scene.Width*scene.Height, e.opts.SummarySamples, e.opts.NoData)
	)
	for y := 0; y < scene.Height; y += rows {
		n := min(rows, scene.Height-y)
		if b, err = scene.ReadRows(y, n); err != nil {
			return
		}
		block, c = Classify(b, e.opts)
		res.Counts.add(c)
		smp.add(block)
		if err = dst.writeRows(y, n, scene.Width, block); err != nil {
			return
		}
		log.Debug(e.logTag+"block done", zap.Int("row", y), zap.Int("rows", n), zap.Int("valid", c.Valid))
	}
	if err = dst.commit(); err != nil {
		return
	}
	if res.Summary, err = smp.summary(); err != nil {
		// 输出已完成，摘要失败不影响结果
		log.Warn(e.logTag+"summary failed", zap.Error(err))
		err = nil
	}
	res.Elapsed = time.Since(start)
	log.Info(e.logTag+"built-up run done", zap.String("out", out), zap.Int("valid", res.Valid),
		zap.Int("vegetation", res.Vegetation), zap.Int("water", res.Water), zap.Int("degenerate", res.Degenerate),
		zap.Int("inputNoData", res.InputNoData), zap.Float64("mean", res.Summary.Mean), zap.Duration("elapsed", res.Elapsed))
	return
}
