// Package metrics keeps process-local counters for the recipe box. Nothing
// is served over HTTP; the stats command prints a snapshot.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "recipebox"

// Share directions.
const (
	Exported = "export"
	Imported = "import"
)

// Metrics holds the counters and the registry they are registered on.
type Metrics struct {
	registry *prometheus.Registry

	RecipesCreated    prometheus.Counter
	Imports           *prometheus.CounterVec
	GroceryItems      prometheus.Counter
	PantrySuppressed  prometheus.Counter
	SharePackages     *prometheus.CounterVec
	DuplicatesSkipped prometheus.Counter
}

// New creates the counters on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RecipesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recipes_created_total",
			Help:      "Recipes saved, including imported and templated ones.",
		}),
		Imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "URL imports by outcome.",
		}, []string{"outcome"}),
		GroceryItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grocery_items_generated_total",
			Help:      "Grocery items inserted by list generation.",
		}),
		PantrySuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pantry_suppressed_total",
			Help:      "Generated grocery items dropped as pantry staples.",
		}),
		SharePackages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_packages_total",
			Help:      "Share packages by direction.",
		}, []string{"direction"}),
		DuplicatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_duplicates_skipped_total",
			Help:      "Shared recipes not inserted because an identical one exists.",
		}),
	}
	m.registry.MustRegister(
		m.RecipesCreated,
		m.Imports,
		m.GroceryItems,
		m.PantrySuppressed,
		m.SharePackages,
		m.DuplicatesSkipped,
	)
	return m
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Sample is one gathered counter value.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

// Snapshot gathers every counter, sorted by name then labels.
func (m *Metrics) Snapshot() ([]Sample, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	var out []Sample
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			out = append(out, Sample{
				Name:   mf.GetName(),
				Labels: labelString(metric.GetLabel()),
				Value:  metric.GetCounter().GetValue(),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Labels < out[j].Labels
	})
	return out, nil
}

// Print writes the snapshot as "name{labels} value" lines.
func (m *Metrics) Print(w io.Writer) error {
	samples, err := m.Snapshot()
	if err != nil {
		return err
	}
	for _, s := range samples {
		if _, err := fmt.Fprintf(w, "%s%s %g\n", s.Name, s.Labels, s.Value); err != nil {
			return err
		}
	}
	return nil
}

func labelString(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
