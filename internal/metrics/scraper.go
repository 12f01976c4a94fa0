// Package metrics scrapes and parses the application's Prometheus text
// exposition endpoint. Read-only: the format is dictated by the endpoint.
package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"
)

const defaultScrapeTimeout = 10 * time.Second

// Sample is a single metric observation.
type Sample struct {
	Name   string
	Type   string
	Labels map[string]string
	Value  float64
}

// Snapshot is the parsed state of the metrics endpoint at one instant.
type Snapshot struct {
	Taken   time.Time
	Samples []Sample
}

// Scraper fetches and parses the metrics endpoint.
type Scraper interface {
	Scrape(ctx context.Context) (*Snapshot, error)
}

type scraper struct {
	url        string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewScraper creates a scraper for the given metrics URL.
func NewScraper(log logrus.FieldLogger, url string) Scraper {
	return &scraper{
		url: url,
		httpClient: &http.Client{
			Timeout: defaultScrapeTimeout,
		},
		log: log.WithField("component", "metrics_scraper"),
	}
}

// Scrape fetches the endpoint and parses every metric family into samples.
func (s *scraper) Scrape(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building metrics request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching metrics: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("metrics endpoint returned %d", resp.StatusCode)
	}

	snapshot, err := Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	s.log.WithField("samples", len(snapshot.Samples)).Debug("scraped metrics")

	return snapshot, nil
}

// Parse reads Prometheus text exposition format into a snapshot.
func Parse(reader io.Reader) (*Snapshot, error) {
	var parser expfmt.TextParser

	families, err := parser.TextToMetricFamilies(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing metrics: %w", err)
	}

	snapshot := &Snapshot{Taken: time.Now()}

	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		family := families[name]
		metricType := strings.ToLower(family.GetType().String())

		for _, metric := range family.GetMetric() {
			labels := make(map[string]string, len(metric.GetLabel()))
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}

			value, ok := sampleValue(family.GetType(), metric)
			if !ok {
				continue
			}

			snapshot.Samples = append(snapshot.Samples, Sample{
				Name:   name,
				Type:   metricType,
				Labels: labels,
				Value:  value,
			})
		}
	}

	return snapshot, nil
}

// sampleValue extracts the scalar value for counter/gauge/untyped families.
// Histograms and summaries are reduced to their sample count.
func sampleValue(metricType dto.MetricType, metric *dto.Metric) (float64, bool) {
	switch metricType {
	case dto.MetricType_COUNTER:
		return metric.GetCounter().GetValue(), true
	case dto.MetricType_GAUGE:
		return metric.GetGauge().GetValue(), true
	case dto.MetricType_UNTYPED:
		return metric.GetUntyped().GetValue(), true
	case dto.MetricType_HISTOGRAM:
		return float64(metric.GetHistogram().GetSampleCount()), true
	case dto.MetricType_SUMMARY:
		return float64(metric.GetSummary().GetSampleCount()), true
	default:
		return 0, false
	}
}

// Filter returns the samples whose name starts with prefix.
func (s *Snapshot) Filter(prefix string) []Sample {
	result := make([]Sample, 0)

	for _, sample := range s.Samples {
		if strings.HasPrefix(sample.Name, prefix) {
			result = append(result, sample)
		}
	}

	return result
}

// Find returns the sample with the exact name and label set.
func (s *Snapshot) Find(name string, labels map[string]string) (Sample, bool) {
	for _, sample := range s.Samples {
		if sample.Name != name {
			continue
		}

		if labelsMatch(sample.Labels, labels) {
			return sample, true
		}
	}

	return Sample{}, false
}

func labelsMatch(got, want map[string]string) bool {
	if len(got) != len(want) {
		return false
	}

	for k, v := range want {
		if got[k] != v {
			return false
		}
	}

	return true
}
