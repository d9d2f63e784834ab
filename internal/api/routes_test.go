package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rep-api/internal/geocode"
	"rep-api/internal/index"
)

func upstreamStubs(t *testing.T, geoBody string) (*httptest.Server, *httptest.Server) {
	t.Helper()
	zipSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/us/00000" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"places":[{"latitude":"37.7485","longitude":"-122.4156"}]}`))
	}))
	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(geoBody))
	}))
	t.Cleanup(zipSrv.Close)
	t.Cleanup(geoSrv.Close)
	return zipSrv, geoSrv
}

func testDeps(t *testing.T, geoBody string, idx index.Index) Deps {
	t.Helper()
	zipSrv, geoSrv := upstreamStubs(t, geoBody)
	var dyn index.Dynamic
	dyn.Set(idx)
	return Deps{
		Geo: &geocode.Client{
			HTTP:      &http.Client{Timeout: 2 * time.Second},
			ZipBase:   zipSrv.URL,
			GeoBase:   geoSrv.URL,
			Benchmark: "Public_AR_Current",
			Vintage:   "Current_Current",
		},
		Index:    &dyn,
		CacheTTL: time.Minute,
	}
}

const oneDistrictGeo = `{"result":{"geographies":{"119th Congressional Districts":[{"CD119":"11","STATE":"06","GEOID":"0611"}]}}}`

func TestRepEndpointResolvesZip(t *testing.T) {
	idx := index.Index{"CA-11": {Name: "Jane Doe", Party: "Democrat", Bioguide: "D000001"}}
	mux := BuildRoutes(testDeps(t, oneDistrictGeo, idx))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rep?zip=94110", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body repResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "94110", body.Zip)
	require.Len(t, body.Representatives, 1)
	assert.Equal(t, "Jane Doe", body.Representatives[0].Name)
	assert.Equal(t, "CA", body.Representatives[0].State)
	assert.Equal(t, "11", body.Representatives[0].District)
}

func TestRepEndpointMissingOfficeholderIsNotAnError(t *testing.T) {
	mux := BuildRoutes(testDeps(t, oneDistrictGeo, index.Index{}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rep?zip=94110", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body repResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Representatives, 1)
	assert.True(t, body.Representatives[0].Missing)
}

func TestRepEndpointErrorMapping(t *testing.T) {
	idx := index.Index{}
	cases := []struct {
		name    string
		zip     string
		geoBody string
		status  int
		errCode string
	}{
		{"malformed zip", "123", oneDistrictGeo, http.StatusBadRequest, "bad_zip"},
		{"unknown zip", "00000", oneDistrictGeo, http.StatusNotFound, "zip_not_found"},
		{"no districts", "94110", `{"result":{"geographies":{"Counties":[{}]}}}`, http.StatusNotFound, "no_districts"},
		{"no geographies", "94110", `{"result":{"geographies":{}}}`, http.StatusNotFound, "no_districts"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mux := BuildRoutes(testDeps(t, tc.geoBody, idx))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rep?zip="+tc.zip, nil))
			assert.Equal(t, tc.status, rec.Code)
			var e errResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
			assert.Equal(t, tc.errCode, e.Error)
		})
	}
}

func TestRepEndpointUpstreamFailureIs502(t *testing.T) {
	idx := index.Index{}
	zipSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(zipSrv.Close)
	var dyn index.Dynamic
	dyn.Set(idx)
	mux := BuildRoutes(Deps{
		Geo: &geocode.Client{
			HTTP:    &http.Client{Timeout: 2 * time.Second},
			ZipBase: zipSrv.URL,
			GeoBase: zipSrv.URL,
		},
		Index:    &dyn,
		CacheTTL: time.Minute,
	})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rep?zip=94110", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDistrictsEndpoint(t *testing.T) {
	mux := BuildRoutes(testDeps(t, oneDistrictGeo, index.Index{}))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/districts?zip=94110", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Zip       string   `json:"zip"`
		Districts []string `json:"districts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"CA-11"}, body.Districts)
}

func TestHealthzReportsIndexSize(t *testing.T) {
	idx := index.Index{"CA-11": {Name: "Jane Doe"}, "CA-12": {Name: "John Roe"}}
	mux := BuildRoutes(testDeps(t, oneDistrictGeo, idx))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 2, body["index_entries"])
}

func TestRoundTripOneResultPerExtractedKey(t *testing.T) {
	multi := `{"result":{"geographies":{"119th Congressional Districts":[
		{"CD119":"11","STATE":"06"},
		{"CD119":"12","STATE":"06"},
		{"STATE":"06","NAME":"Congressional District 12"}
	]}}}`
	idx := index.Index{"CA-11": {Name: "Jane Doe"}}
	mux := BuildRoutes(testDeps(t, multi, idx))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rep?zip=94110", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body repResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Representatives, 2, "duplicate district collapses")
	reps := body.Representatives
	assert.Equal(t, "11", reps[0].District)
	assert.Equal(t, "12", reps[1].District)
	assert.False(t, reps[0].Missing)
	assert.True(t, reps[1].Missing)
}
