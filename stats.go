package builtup

import (
	"github.com/montanaflynn/stats"
)

// 按固定步长对有效像元采样，用于统计摘要
type sampler struct {
	stride int
	seen   int
	data   stats.Float64Data
	nodata float64
}

func newSampler(total, maxSamples int, nodata float64) *sampler {
	s := &sampler{stride: 1, nodata: nodata}
	if maxSamples <= 0 {
		s.stride = 0
		return s
	}
	if total > maxSamples {
		s.stride = (total + maxSamples - 1) / maxSamples
	}
	s.data = make(stats.Float64Data, 0, min(total, maxSamples))
	return s
}

func (s *sampler) add(block []float64) {
	if s.stride == 0 {
		return
	}
	for _, v := range block {
		if isNoData(v, s.nodata) {
			continue
		}
		if s.seen%s.stride == 0 {
			s.data = append(s.data, v)
		}
		s.seen++
	}
}

func (s *sampler) summary() (sum Summary, err error) {
	if len(s.data) == 0 {
		return
	}
	sum.Samples = len(s.data)
	if sum.Min, err = stats.Min(s.data); err != nil {
		return
	}
	if sum.Max, err = stats.Max(s.data); err != nil {
		return
	}
	if sum.Mean, err = stats.Mean(s.data); err != nil {
		return
	}
	if sum.Median, err = stats.Median(s.data); err != nil {
		return
	}
	sum.P90, err = stats.Percentile(s.data, SummaryPercentile)
	return
}

// 对一组像元值做统计摘要（忽略无值）
func Summarize(values []float64, nodata float64) (Summary, error) {
	s := newSampler(len(values), len(values), nodata)
	s.add(values)
	return s.summary()
}
