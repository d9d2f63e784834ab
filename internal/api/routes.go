// Package api registers the HTTP routes, decoupled from the main entrypoint
// so the surface stays extensible and testable.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"rep-api/internal/district"
	"rep-api/internal/geocode"
	"rep-api/internal/index"
	"rep-api/internal/logger"
	"rep-api/internal/metrics"
	"rep-api/internal/resolve"
	"rep-api/internal/version"
)

// Deps carries everything the handlers read. Redis may be nil; every cache
// interaction degrades to a pass-through then.
type Deps struct {
	Redis    *redis.Client
	Geo      *geocode.Client
	Index    *index.Dynamic
	CacheTTL time.Duration
}

// repResponse is the outward payload for a ZIP resolution. Fields are stable;
// additions need a compatibility check against consumers.
type repResponse struct {
	Zip             string                   `json:"zip"`
	Representatives []resolve.Representative `json:"representatives"`
}

type errResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// BuildRoutes returns the API mux for mounting under the configured prefix.
func BuildRoutes(d Deps) *http.ServeMux {
	apiMux := http.NewServeMux()

	apiMux.HandleFunc("/rep", func(w http.ResponseWriter, r *http.Request) {
		t0 := time.Now()
		metrics.RequestsTotal.Inc()
		defer func() {
			metrics.RequestDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
		}()
		ctx := r.Context()
		zip := r.URL.Query().Get("zip")

		if d.Redis != nil {
			if s, _ := d.Redis.Get(ctx, "rep:"+zip).Result(); s != "" {
				metrics.RedisHitsTotal.Inc()
				writeRawJSON(w, []byte(s))
				return
			}
			metrics.RedisMissesTotal.Inc()
		}

		reps, err := resolveZip(r, d, zip)
		if err != nil {
			writeResolveError(w, zip, err)
			return
		}

		// Short-window dedup feeds the unique-ZIP counter only; failures
		// here never block the response.
		if first, err := bloomCheckAndSet(ctx, d.Redis, "zipseen", bloomPositions([]byte(zip), 1<<16, 4), 24*time.Hour); err == nil && first {
			metrics.UniqueZipsTotal.Inc()
		}

		body, _ := json.Marshal(repResponse{Zip: zip, Representatives: reps})
		if d.Redis != nil {
			_ = d.Redis.Set(ctx, "rep:"+zip, string(body), d.CacheTTL).Err()
		}
		writeRawJSON(w, body)
	})

	apiMux.HandleFunc("/districts", func(w http.ResponseWriter, r *http.Request) {
		zip := r.URL.Query().Get("zip")
		keys, err := districtsForZip(r, d, zip)
		if err != nil {
			writeResolveError(w, zip, err)
			return
		}
		sorted := make([]string, 0, len(keys))
		for k := range keys {
			sorted = append(sorted, k)
		}
		sort.Strings(sorted)
		writeJSON(w, map[string]any{"zip": zip, "districts": sorted})
	})

	apiMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"status":        "ok",
			"index_entries": len(d.Index.Get()),
			"commit":        version.Commit,
		})
	})

	return apiMux
}

// districtsForZip runs the two sequential upstream lookups and extraction.
func districtsForZip(r *http.Request, d Deps, zip string) (map[string]struct{}, error) {
	ctx := r.Context()
	lat, lon, err := d.Geo.ZipCentroid(ctx, zip)
	if err != nil {
		return nil, err
	}
	geographies, err := d.Geo.Geographies(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	return district.Extract(geographies)
}

func resolveZip(r *http.Request, d Deps, zip string) ([]resolve.Representative, error) {
	keys, err := districtsForZip(r, d, zip)
	if err != nil {
		return nil, err
	}
	return resolve.Representatives(keys, d.Index.Get()), nil
}

// writeResolveError maps collaborator failures onto statuses: malformed input
// 400, unknown ZIP or no districts 404, everything upstream 502. A resolved
// key without an officeholder never lands here; that is data, not an error.
func writeResolveError(w http.ResponseWriter, zip string, err error) {
	var status int
	var category string
	switch {
	case errors.Is(err, geocode.ErrBadZip):
		status, category = http.StatusBadRequest, "bad_zip"
	case errors.Is(err, geocode.ErrZipNotFound):
		status, category = http.StatusNotFound, "zip_not_found"
	case errors.Is(err, district.ErrNoDistricts), errors.Is(err, geocode.ErrNoGeographies):
		status, category = http.StatusNotFound, "no_districts"
	default:
		status, category = http.StatusBadGateway, "upstream_error"
	}
	logger.L().Debug("resolve_error", "zip", zip, "category", category, "err", err)
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errResponse{Error: category, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, b []byte) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	_, _ = w.Write(b)
}
