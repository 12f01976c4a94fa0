package metrics

import (
	"fmt"
	"sort"
	"strings"
)

// CounterDelta is the increase of one counter between two snapshots.
type CounterDelta struct {
	Name     string
	Labels   map[string]string
	Increase float64
}

// GaugeChange is a gauge's value before and after a scenario. Gauges can
// move both ways, so the pair is reported rather than a delta.
type GaugeChange struct {
	Name   string
	Labels map[string]string
	Before float64
	After  float64
}

// Delta computes counter increases between two snapshots. Counters absent
// from the before snapshot count from zero (the application may have
// registered them lazily). Counters that went backwards indicate a restart
// and are skipped.
func Delta(before, after *Snapshot) []CounterDelta {
	previous := make(map[string]float64)

	for _, sample := range before.Samples {
		if sample.Type == "counter" || sample.Type == "histogram" || sample.Type == "summary" {
			previous[sampleKey(sample)] = sample.Value
		}
	}

	result := make([]CounterDelta, 0)

	for _, sample := range after.Samples {
		if sample.Type != "counter" && sample.Type != "histogram" && sample.Type != "summary" {
			continue
		}

		base := previous[sampleKey(sample)]
		if sample.Value < base {
			continue
		}

		if increase := sample.Value - base; increase > 0 {
			result = append(result, CounterDelta{
				Name:     sample.Name,
				Labels:   sample.Labels,
				Increase: increase,
			})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}

		return labelString(result[i].Labels) < labelString(result[j].Labels)
	})

	return result
}

// GaugeChanges pairs gauge values across two snapshots, reporting only
// gauges whose value moved.
func GaugeChanges(before, after *Snapshot) []GaugeChange {
	previous := make(map[string]float64)

	for _, sample := range before.Samples {
		if sample.Type == "gauge" {
			previous[sampleKey(sample)] = sample.Value
		}
	}

	result := make([]GaugeChange, 0)

	for _, sample := range after.Samples {
		if sample.Type != "gauge" {
			continue
		}

		base, seen := previous[sampleKey(sample)]
		if !seen || base == sample.Value {
			continue
		}

		result = append(result, GaugeChange{
			Name:   sample.Name,
			Labels: sample.Labels,
			Before: base,
			After:  sample.Value,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

func sampleKey(sample Sample) string {
	return sample.Name + "{" + labelString(sample.Labels) + "}"
}

func labelString(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	parts := make([]string, 0, len(labels))
	for k, v := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", k, v))
	}
	sort.Strings(parts)

	return strings.Join(parts, ",")
}
