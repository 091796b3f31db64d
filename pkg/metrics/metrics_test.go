package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "songsim")
				So(manager.subsystem, ShouldEqual, "recommender")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})

			Convey("And constant labels are attached to gathered metrics", func() {
				manager.catalogSongs.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() != "test_namespace_test_subsystem_catalog_songs" {
						continue
					}
					found = true
					So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When creating with empty option values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "songsim")
				So(manager.subsystem, ShouldEqual, "recommender")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When a catalog is built", func() {
			loads := testutil.ToFloat64(active().catalogLoads)
			UpdateCatalog(1200, 15, 1)
			RecordCatalogLoadDuration(42)

			Convey("Then catalog gauges reflect it", func() {
				So(testutil.ToFloat64(active().catalogSongs), ShouldEqual, 1200)
				So(testutil.ToFloat64(active().featureDimensions), ShouldEqual, 15)
				So(testutil.ToFloat64(active().zeroVarianceColumns), ShouldEqual, 1)
				So(testutil.ToFloat64(active().catalogLoads), ShouldEqual, loads+1)
				So(testutil.ToFloat64(active().catalogLastLoadedUnix), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When a catalog build fails", func() {
			before := testutil.ToFloat64(active().catalogLoadErrors)
			RecordCatalogLoadError()

			Convey("Then the error counter increases", func() {
				So(testutil.ToFloat64(active().catalogLoadErrors), ShouldEqual, before+1)
			})
		})

		Convey("When recording recommendations", func() {
			total := testutil.ToFloat64(active().recommendations)
			empty := testutil.ToFloat64(active().emptyRecommendations)
			RecordRecommendation("popular", "same", 10, 5, 1.5)
			RecordRecommendation("underground", "different", 0, 0, 0.2)

			Convey("Then totals and empty results are counted", func() {
				So(testutil.ToFloat64(active().recommendations), ShouldEqual, total+2)
				So(testutil.ToFloat64(active().emptyRecommendations), ShouldEqual, empty+1)
				So(testutil.ToFloat64(active().recommendationsByMode.WithLabelValues("popular", "same")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording cache lookups", func() {
			hits := testutil.ToFloat64(active().cacheHits)
			misses := testutil.ToFloat64(active().cacheMisses)
			RecordCacheHit()
			RecordCacheMiss()
			RecordCacheMiss()

			Convey("Then hits and misses are counted separately", func() {
				So(testutil.ToFloat64(active().cacheHits), ShouldEqual, hits+1)
				So(testutil.ToFloat64(active().cacheMisses), ShouldEqual, misses+2)
			})
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("recommend", "GET", "200")
				RecordHTTPRequestDuration("recommend", "GET", "200", 3.5)
				RecordErrorByComponent("catalog", "malformed_record")
				RecordErrorByEndpoint("recommend", "GET", "client_error")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			for i := 0; i < 10; i++ {
				go func() {
					for j := 0; j < 100; j++ {
						RecordRecommendation("none", "none", j, j, float64(j))
						RecordCacheHit()
						RecordHTTPRequest("recommend", "GET", "200")
					}
					done <- true
				}()
			}

			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(true, ShouldBeTrue)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		UpdateCatalog(1, 15, 0)

		Convey("Then it gathers the recommender metrics", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(names, ShouldContain, "songsim_recommender_catalog_songs")
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given metrics re-initialized with custom options", t, func() {
		before := GetRegistry()
		Init(
			WithNamespace("custom"),
			WithSubsystem("songs"),
			WithCustomLabels(map[string]string{"instance": "a"}),
			WithHistogramBuckets([]float64{1, 2, 4}),
		)
		defer Init()

		UpdateCatalog(7, 15, 0)

		Convey("Then a fresh registry carries the renamed metrics", func() {
			So(GetRegistry(), ShouldNotPointTo, before)
			So(active().histogramBuckets, ShouldResemble, []float64{1, 2, 4})

			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			found := false
			for _, f := range families {
				So(f.GetName(), ShouldNotStartWith, "songsim_")
				if f.GetName() == "custom_songs_catalog_songs" {
					found = true
					So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "a")
					So(f.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 7)
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}
