package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating a manager with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithMetricPrefix("pre"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test_ns")
				So(manager.subsystem, ShouldEqual, "test_sub")
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})

			Convey("And metric names carry namespace, subsystem and prefix", func() {
				manager.entriesSubmitted.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_ns_test_sub_pre_entries_submitted_total"], ShouldBeTrue)
			})
		})

		Convey("When empty or invalid options are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithRefreshInterval(-time.Second),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "runboard")
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})

		Convey("When metrics are disabled", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithMetricsEnabled(false), WithPrometheusRegistry(registry))

			Convey("Then nothing is registered but recording still works", func() {
				So(func() { manager.entriesSubmitted.Inc() }, ShouldNotPanic)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldEqual, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording submissions", func() {
			before := testutil.ToFloat64(globalManager.entriesSubmitted)
			RecordEntrySubmitted()
			RecordEntrySubmitted()

			Convey("Then the counter advances", func() {
				So(testutil.ToFloat64(globalManager.entriesSubmitted), ShouldEqual, before+2)
			})
		})

		Convey("When recording seeded entries", func() {
			before := testutil.ToFloat64(globalManager.entriesSeeded)
			RecordEntriesSeeded(5)

			Convey("Then the counter advances by the batch size", func() {
				So(testutil.ToFloat64(globalManager.entriesSeeded), ShouldEqual, before+5)
			})
		})

		Convey("When updating gauges", func() {
			UpdateEntriesTotal(42)
			UpdateHardmodeEntries(7)

			Convey("Then they hold the last value", func() {
				So(testutil.ToFloat64(globalManager.entriesTotal), ShouldEqual, 42)
				So(testutil.ToFloat64(globalManager.hardmodeEntries), ShouldEqual, 7)
			})
		})

		Convey("When recording store errors", func() {
			before := testutil.ToFloat64(globalManager.storeErrors.WithLabelValues("add_entry"))
			RecordStoreError("add_entry")

			Convey("Then the labelled counter advances", func() {
				So(testutil.ToFloat64(globalManager.storeErrors.WithLabelValues("add_entry")), ShouldEqual, before+1)
			})
		})

		Convey("When recording the remaining metrics", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordSubmissionError()
					RecordStoreWriteLatency(1.5)
					RecordStoreQueryLatency(0.7)
					RecordStoreSlowQuery()
					RecordHTTPRequest("leaderboard", "GET", "200")
					RecordHTTPRequestDuration("leaderboard", "GET", "200", 3)
					RecordErrorByType("client_error", "medium")
					RecordErrorByEndpoint("leaderboard", "POST", "client_error")
					RecordErrorLatency("http", "client_error", 2)
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(12)
					RecordSystemGCPauseTime(0.3)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering from the custom registry", func() {
			RecordEntrySubmitted()
			families, err := GetRegistry().Gather()

			Convey("Then runboard metrics are exposed", func() {
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "runboard_leaderboard_entries_submitted_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
