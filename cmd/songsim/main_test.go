package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/songsim/internal/adapters/cli"
	"github.com/okian/songsim/internal/config"
	"github.com/okian/songsim/internal/domain/types"
	"github.com/okian/songsim/internal/testcatalog"
	"github.com/okian/songsim/pkg/logger"
	"github.com/okian/songsim/pkg/metrics"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func writeTestCatalog(t *testing.T) (string, string) {
	t.Helper()
	songs := testcatalog.Generate(60, 7)
	path := filepath.Join(t.TempDir(), "songs.csv")
	if err := testcatalog.WriteCatalog(context.Background(), path, "", songs); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path, songs[0].TrackID
}

func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRecommendCommand(t *testing.T) {
	convey.Convey("Given a catalog on disk", t, func() {
		_ = os.Unsetenv(config.EnvFile)
		path, trackID := writeTestCatalog(t)

		convey.Convey("When recommending as JSON with every value given", func() {
			out, err := execute("recommend", "--catalog", path, "-k", "3", "--output", "json", "--genre", "none", trackID)

			convey.Convey("Then k results for the query song are printed", func() {
				convey.So(err, convey.ShouldBeNil)
				var resp types.RecommendResponse
				convey.So(json.Unmarshal([]byte(out), &resp), convey.ShouldBeNil)
				convey.So(resp.Query.TrackID, convey.ShouldEqual, trackID)
				convey.So(resp.Results, convey.ShouldHaveLength, 3)
				convey.So(resp.Results[0].Rank, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When recommending without k on a non-terminal stdin", func() {
			out, err := execute("recommend", "--catalog", path, "-o", "yaml", trackID)

			convey.Convey("Then the default count is used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(bytes.Count([]byte(out), []byte("rank:")), convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When no song is given on a non-terminal stdin", func() {
			_, err := execute("recommend", "--catalog", path)

			convey.Convey("Then it fails with a missing song error", func() {
				convey.So(errors.Is(err, cli.ErrMissingSong), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the output format is unknown", func() {
			_, err := execute("recommend", "--catalog", path, "-o", "xml", trackID)

			convey.Convey("Then it fails before loading anything", func() {
				convey.So(errors.Is(err, cli.ErrUnknownFormat), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When k exceeds the configured maximum", func() {
			_, err := execute("recommend", "--catalog", path, "-k", "500", trackID)

			convey.Convey("Then it fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the catalog does not exist", func() {
			_, err := execute("recommend", "--catalog", filepath.Join(t.TempDir(), "missing.csv"), trackID)

			convey.Convey("Then it fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestVersionCommand(t *testing.T) {
	convey.Convey("Given the version command", t, func() {
		out, err := execute("version")

		convey.Convey("Then it prints build information", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldStartWith, "songsim dev")
		})
	})
}

func TestLoadConfig(t *testing.T) {
	convey.Convey("Given command-line flags", t, func() {
		_ = os.Unsetenv(config.EnvFile)
		defer func() { _ = os.Unsetenv(config.EnvFile) }()

		convey.Convey("When flags are set", func() {
			cfg, err := loadConfig(context.Background(), &globalFlags{catalog: "x.db", table: "tracks", logLevel: "debug"})

			convey.Convey("Then they override the loaded values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "x.db")
				convey.So(cfg.CatalogTable, convey.ShouldEqual, "tracks")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When a config file is given", func() {
			file := filepath.Join(t.TempDir(), "songsim.yaml")
			convey.So(os.WriteFile(file, []byte("max_k: 7\ndefault_k: 2\n"), 0o600), convey.ShouldBeNil)
			cfg, err := loadConfig(context.Background(), &globalFlags{configFile: file})

			convey.Convey("Then it is read", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MaxK, convey.ShouldEqual, 7)
				convey.So(cfg.DefaultK, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When a flag makes the config invalid", func() {
			_, err := loadConfig(context.Background(), &globalFlags{catalog: "   "})

			convey.Convey("Then validation still applies", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestServe(t *testing.T) {
	convey.Convey("Given a catalog on disk", t, func() {
		_ = os.Unsetenv(config.EnvFile)
		path, _ := writeTestCatalog(t)

		convey.Convey("When the server runs until its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()
			err := runServe(ctx, &globalFlags{catalog: path}, "127.0.0.1:0")

			convey.Convey("Then it shuts down cleanly", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the catalog is unreadable", func() {
			err := runServe(context.Background(), &globalFlags{catalog: filepath.Join(t.TempDir(), "none.csv")}, "127.0.0.1:0")

			convey.Convey("Then it fails before listening", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestSystemMetricsUpdater(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		convey.Convey("Then it runs until its context ends", func() {
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}

func TestBootstrapMetrics(t *testing.T) {
	convey.Convey("Given a config naming the metrics", t, func() {
		_ = os.Unsetenv(config.EnvFile)
		defer func() { _ = os.Unsetenv(config.EnvFile) }()
		defer metrics.Init()

		path, _ := writeTestCatalog(t)
		file := filepath.Join(t.TempDir(), "songsim.yaml")
		convey.So(os.WriteFile(file, []byte("metrics_namespace: radio\nmetrics_labels:\n  region: eu\n"), 0o600), convey.ShouldBeNil)

		_, _, err := bootstrap(context.Background(), &globalFlags{configFile: file, catalog: path})
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the catalog metrics are exported under that name", func() {
			families, err := metrics.GetRegistry().Gather()
			convey.So(err, convey.ShouldBeNil)
			var songs float64
			for _, f := range families {
				if f.GetName() == "radio_recommender_catalog_songs" {
					songs = f.GetMetric()[0].GetGauge().GetValue()
					convey.So(f.GetMetric()[0].GetLabel()[0].GetValue(), convey.ShouldEqual, "eu")
				}
			}
			convey.So(songs, convey.ShouldEqual, 60)
		})
	})
}
