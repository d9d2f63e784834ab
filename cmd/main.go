// Entrypoint: reads configuration, loads the roster, builds the officeholder
// index and starts the server; route registration lives in internal/api.
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"rep-api/internal/api"
	"rep-api/internal/geocode"
	"rep-api/internal/index"
	"rep-api/internal/logger"
	"rep-api/internal/metrics"
	"rep-api/internal/middleware"
	"rep-api/internal/roster"
	"rep-api/internal/utils"
	"rep-api/internal/version"
)

func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()
	l.Debug("log_init_ok")

	apiBase := os.Getenv("API_BASE")
	if apiBase == "" {
		apiBase = "/api"
	}
	rosterPath := os.Getenv("ROSTER_PATH")
	if rosterPath == "" {
		rosterPath = filepath.Join("data", "legislators-current.yaml")
	}
	ui := os.Getenv("UI_DIST")
	if ui == "" {
		ui = filepath.Join("ui", "dist")
	}
	l.Debug("config", "api_base", apiBase, "roster", rosterPath, "ui_dir", ui)

	// The roster is the one fatal dependency: without it there is no index
	// and nothing to serve.
	legs, err := roster.Load(rosterPath)
	if err != nil {
		l.Error("roster_load_error", "err", err)
		os.Exit(1)
	}
	var idx index.Dynamic
	idx.Set(index.Build(legs, time.Now()))

	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else if err := rc.Ping(context.Background()).Err(); err != nil {
		l.Error("redis_ping_error", "err", err)
	} else {
		l.Info("redis_ping_ok")
	}

	cacheTTL := 6 * time.Hour
	if s := os.Getenv("CACHE_TTL_SECONDS"); s != "" {
		if n, e := strconv.Atoi(s); e == nil && n > 0 {
			cacheTTL = time.Duration(n) * time.Second
		}
	}

	geo := geocode.NewFromEnv()
	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(api.Deps{Redis: rc, Geo: geo, Index: &idx, CacheTTL: cacheTTL})
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, apiMux))
	mux.Handle(apiBase+"/metrics", metrics.Handler())

	// Reload rebuilds the index from the roster file and swaps it in whole;
	// in-flight reads keep the previous index until the swap. A failed
	// reload keeps the old index (only the startup read is fatal).
	mux.HandleFunc(apiBase+"/reload-index", func(w http.ResponseWriter, r *http.Request) {
		t := r.Header.Get("x-admin-token")
		if t == "" || t != os.Getenv("ADMIN_TOKEN") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		legs, err := roster.Load(rosterPath)
		if err != nil {
			l.Error("roster_reload_error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		idx.Set(index.Build(legs, time.Now()))
		l.Info("index_reloaded", "seats", len(idx.Get()))
		w.WriteHeader(http.StatusNoContent)
	})

	fs := http.FileServer(http.Dir(ui))
	mux.Handle("/", fs)

	// Expose the API base to the frontend instead of hardcoding it there.
	mux.HandleFunc("/config.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte("window.__API_BASE__='" + apiBase + "'"))
		_, _ = w.Write([]byte("\n"))
		_, _ = w.Write([]byte("window.__COMMIT_SHA__='" + version.Commit + "'"))
	})

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler)
	s := &http.Server{Addr: addr, Handler: handler}
	l.Info("listening", "addr", addr)
	if err := s.ListenAndServe(); err != nil {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
}
