package media

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSaved   = "saved"
	resultSkipped = "skipped"
	resultFailed  = "failed"
)

type Metrics struct {
	processed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		processed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brewlog_images_processed_total",
				Help: "Images run through the upload pipeline, by outcome.",
			},
			[]string{"category", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brewlog_image_processing_seconds",
				Help:    "Time spent deriving and storing the renditions of one image.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"category"},
		),
	}

	if err := reg.Register(m.processed); err != nil {
		return nil, err
	}
	if err := reg.Register(m.duration); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) observe(category Category, result string, seconds float64) {
	if m == nil {
		return
	}
	m.processed.WithLabelValues(string(category), result).Inc()
	if result == resultSaved {
		m.duration.WithLabelValues(string(category)).Observe(seconds)
	}
}
