package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	service "github.com/okian/runboard/internal/app"
	"github.com/okian/runboard/internal/config"
	"github.com/okian/runboard/internal/domain/types"
	"github.com/okian/runboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.New()
	cfg.DBDSN = filepath.Join(t.TempDir(), "main.db")
	return cfg
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given main application integration", t, func() {
		convey.So(logger.Init(logger.WithWriter(io.Discard)), convey.ShouldBeNil)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cfg := testConfig(t)

		convey.Convey("When wiring the store, service and routes", func() {
			store, err := openStore(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)

			svc := service.New(store)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			mux := newMux(ctx, cfg, svc)

			convey.Convey("Then the seeded leaderboard is served", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboard?all=true", nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

				var body map[string][]types.Entry
				convey.So(json.NewDecoder(w.Body).Decode(&body), convey.ShouldBeNil)
				convey.So(len(body["entries"]), convey.ShouldBeGreaterThan, 0)
				convey.So(types.IsOrdered(body["entries"]), convey.ShouldBeTrue)
			})

			convey.Convey("Then a submission round-trips", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaderboard",
					strings.NewReader(`{"name":"Zed","link":"","time":1,"items":0}`)))
				convey.So(w.Code, convey.ShouldEqual, http.StatusCreated)

				w = httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=1", nil))
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"name":"Zed"`)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"link":null`)
			})

			convey.Convey("Then health, docs and metrics routes respond", func() {
				for _, path := range []string{"/healthz", "/openapi.yaml", "/api-docs", "/metrics", "/stats"} {
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}
			})
		})

		convey.Convey("When the results envelope is configured", func() {
			cfg.EntriesField = "results"
			store, err := openStore(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)

			svc := service.New(store)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			w := httptest.NewRecorder()
			newMux(ctx, cfg, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))

			convey.Convey("Then the list is keyed by results", func() {
				convey.So(w.Body.String(), convey.ShouldStartWith, `{"results":[`)
			})
		})

		convey.Convey("When seeding is disabled", func() {
			cfg.SeedEnabled = false
			store, err := openStore(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)

			svc := service.New(store)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then the leaderboard starts empty", func() {
				entries, err := svc.List(ctx, service.Query{All: true})
				convey.So(err, convey.ShouldBeNil)
				convey.So(entries, convey.ShouldBeEmpty)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.So(logger.Init(logger.WithWriter(io.Discard)), convey.ShouldBeNil)
		ctx := context.Background()
		cfg := testConfig(t)

		convey.Convey("When the seed file does not exist", func() {
			cfg.SeedPath = filepath.Join(t.TempDir(), "missing.yaml")
			store, err := openStore(ctx, cfg)

			convey.Convey("Then opening the store fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(store, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the driver is unknown", func() {
			cfg.DBDriver = "mysql"
			store, err := openStore(ctx, cfg)

			convey.Convey("Then opening the store fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(store, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the configured address is empty", func() {
			_ = os.Setenv("RUNBOARD_ADDR", "")
			defer func() { _ = os.Unsetenv("RUNBOARD_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.So(logger.Init(logger.WithWriter(io.Discard)), convey.ShouldBeNil)

		convey.Convey("When running the system metrics updater until cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})

		convey.Convey("When running the service metrics updater until cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			store, err := openStore(ctx, testConfig(t))
			convey.So(err, convey.ShouldBeNil)
			svc := service.New(store)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("When updating system metrics", func() {
			convey.So(func() { updateSystemMetrics() }, convey.ShouldNotPanic)
		})
	})
}
