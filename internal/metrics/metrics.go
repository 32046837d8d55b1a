package metrics

import (
	"github.com/wgdzlh/builtup"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rotisserie/eris"
)

const namespace = "builtup"

// 引擎运行与场景选择的指标，批处理结束后写入node-exporter textfile
type Recorder struct {
	reg        *prometheus.Registry
	runs       *prometheus.CounterVec
	pixels     *prometheus.CounterVec
	duration   prometheus.Histogram
	meanIndex  *prometheus.GaugeVec
	selections *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of engine runs",
			},
			[]string{"period", "status"},
		),
		pixels: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pixels_total",
				Help:      "Output pixels by class",
			},
			[]string{"period", "class"},
		),
		duration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Engine run duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
		meanIndex: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_mean",
				Help:      "Mean built-up index of unmasked pixels",
			},
			[]string{"period"},
		),
		selections: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "selections_total",
				Help:      "Scene selections by outcome",
			},
			[]string{"period", "status"},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (r *Recorder) ObserveRun(period string, res builtup.Result, err error) {
	r.runs.WithLabelValues(period, status(err)).Inc()
	if err != nil {
		return
	}
	r.duration.Observe(res.Elapsed.Seconds())
	r.pixels.WithLabelValues(period, "valid").Add(float64(res.Valid))
	r.pixels.WithLabelValues(period, "vegetation").Add(float64(res.Vegetation))
	r.pixels.WithLabelValues(period, "water").Add(float64(res.Water))
	r.pixels.WithLabelValues(period, "degenerate").Add(float64(res.Degenerate))
	r.pixels.WithLabelValues(period, "input_nodata").Add(float64(res.InputNoData))
	if res.Summary.Samples > 0 {
		r.meanIndex.WithLabelValues(period).Set(res.Summary.Mean)
	}
}

func (r *Recorder) ObserveSelection(period string, err error) {
	r.selections.WithLabelValues(period, status(err)).Inc()
}

func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return eris.Wrapf(err, "write metrics to %s", path)
	}
	return nil
}
