package raft

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// mustGather gathers every metric family registered on g, failing the test
// immediately if the gatherer itself errors.
func mustGather(tb testing.TB, g prometheus.Gatherer) []*dto.MetricFamily {
	tb.Helper()
	mfs, err := g.Gather()
	if err != nil {
		tb.Fatalf("error while gathering channel metrics: %v", err)
	}
	return mfs
}

// mustFindMetric locates the metric family named name and, within it, the
// metric whose labels exactly match labels. It fails the test with a
// listing of what was actually registered rather than a bare nil.
func mustFindMetric(tb testing.TB, mfs []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	tb.Helper()

	var fam *dto.MetricFamily
	for _, mf := range mfs {
		if mf.GetName() == name {
			fam = mf
			break
		}
	}
	if fam == nil {
		tb.Logf("metric family %q not found; available families:", name)
		for _, mf := range mfs {
			tb.Logf("\t%s", mf.GetName())
		}
		tb.FailNow()
		return nil
	}

	for _, m := range fam.Metric {
		if len(m.Label) != len(labels) {
			continue
		}
		match := true
		for _, l := range m.Label {
			if labels[l.GetName()] != l.GetValue() {
				match = false
				break
			}
		}
		if match {
			return m
		}
	}

	tb.Fatalf("metric family %q found but no metric matched labels %v", name, labels)
	return nil
}
