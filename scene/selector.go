package scene

import (
	"context"
	"time"

	"github.com/wgdzlh/builtup/log"
	"github.com/wgdzlh/builtup/utils"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// 为每个分幅、每个时间段挑选一景最优产品
type Selector struct {
	cat    Catalog
	cfg    Config
	fp     *Footprints
	now    func() time.Time
	logTag string
}

type SelectorOption func(*Selector)

// 指定当前时间（用于测试）
func WithClock(now func() time.Time) SelectorOption {
	return func(s *Selector) {
		s.now = now
	}
}

func NewSelector(cat Catalog, cfg Config, opts ...SelectorOption) (s *Selector, err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	s = &Selector{
		cat:    cat,
		cfg:    cfg,
		now:    time.Now,
		logTag: "Selector:",
	}
	for _, o := range opts {
		o(s)
	}
	if cfg.AOI != "" {
		if s.fp, err = NewFootprints(cfg.AOI); err != nil {
			s = nil
		}
	}
	return
}

func (s *Selector) Close() {
	if s.fp != nil {
		s.fp.Destroy()
		s.fp = nil
	}
}

func (s *Selector) query(tile string, p Period) (q Query, err error) {
	start, end, err := p.Range(s.now())
	if err != nil {
		return
	}
	q = Query{
		Tile:        utils.NormalizeTile(tile),
		Platform:    s.cfg.Platform,
		ProductType: s.cfg.ProductType,
		Start:       start,
		End:         end,
		CloudMin:    s.cfg.CloudMin,
		CloudMax:    s.cfg.CloudMax,
	}
	return
}

func (s *Selector) filterByCoverage(ps []Product) (kept []Product) {
	if s.fp == nil || s.cfg.MinCoverage <= 0 {
		return ps
	}
	kept = ps[:0:0]
	for _, p := range ps {
		ratio, err := s.fp.Coverage(p.Footprint)
		if err != nil {
			log.Warn(s.logTag+"skip product with bad footprint", zap.String("id", p.ID), zap.Error(err))
			continue
		}
		if ratio < s.cfg.MinCoverage {
			log.Info(s.logTag+"skip product with low coverage", zap.String("id", p.ID), zap.Float64("ratio", ratio))
			continue
		}
		kept = append(kept, p)
	}
	return
}

// 检索、去除过小产品与低覆盖产品、按云量和入库时间排序后取第一景
func (s *Selector) Select(ctx context.Context, tile string, p Period) (best Product, err error) {
	q, err := s.query(tile, p)
	if err != nil {
		return
	}
	ps, err := s.cat.Query(ctx, q)
	if err != nil {
		log.Error(s.logTag+"catalog query failed", zap.String("tile", q.Tile), zap.String("period", p.Name), zap.Error(err))
		err = eris.Wrapf(err, "query tile %s period %s", q.Tile, p.Name)
		return
	}
	log.Info(s.logTag+"found products", zap.String("tile", q.Tile), zap.String("period", p.Name), zap.Int("count", len(ps)))
	ps = FilterBySize(ps, s.cfg.MinSize)
	ps = s.filterByCoverage(ps)
	log.Info(s.logTag+"reduced products", zap.String("tile", q.Tile), zap.String("period", p.Name), zap.Int("count", len(ps)))
	if len(ps) == 0 {
		err = eris.Wrapf(ErrNoProduct, "tile %s period %s", q.Tile, p.Name)
		return
	}
	Rank(ps)
	best = ps[0]
	log.Info(s.logTag+"selected product", zap.String("tile", q.Tile), zap.String("period", p.Name),
		zap.String("id", best.ID), zap.Float64("cloud", best.CloudCover), zap.Time("ingestion", best.IngestionDate))
	return
}

// 一个(分幅, 时间段)的选择结果
type Selection struct {
	Tile    string
	Period  string
	Product *Product
	Err     error
}

// 对所有分幅与时间段执行选择，单个失败不中断
func (s *Selector) Plan(ctx context.Context) (ret []Selection) {
	for _, p := range s.cfg.Periods {
		for _, tile := range s.cfg.Tiles {
			sel := Selection{Tile: utils.NormalizeTile(tile), Period: p.Name}
			if best, err := s.Select(ctx, tile, p); err != nil {
				sel.Err = err
				if ctx.Err() != nil {
					ret = append(ret, sel)
					return
				}
			} else {
				sel.Product = &best
			}
			ret = append(ret, sel)
		}
	}
	return
}
