package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(zipBase, geoBase string) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: 2 * time.Second},
		ZipBase:   zipBase,
		GeoBase:   geoBase,
		Benchmark: "Public_AR_Current",
		Vintage:   "Current_Current",
	}
}

func TestZipCentroid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/us/94110", r.URL.Path)
		_, _ = w.Write([]byte(`{"places":[{"latitude":"37.7485","longitude":"-122.4156"}]}`))
	}))
	defer srv.Close()

	lat, lon, err := testClient(srv.URL, "").ZipCentroid(context.Background(), "94110")
	require.NoError(t, err)
	assert.InDelta(t, 37.7485, lat, 1e-6)
	assert.InDelta(t, -122.4156, lon, 1e-6)
}

func TestZipCentroidRejectsMalformedZip(t *testing.T) {
	c := testClient("http://unreachable.invalid", "")
	for _, zip := range []string{"", "1234", "123456", "abcde", "12 34"} {
		_, _, err := c.ZipCentroid(context.Background(), zip)
		assert.ErrorIs(t, err, ErrBadZip, "zip %q", zip)
	}
}

func TestZipCentroidNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, _, err := testClient(srv.URL, "").ZipCentroid(context.Background(), "00000")
	assert.ErrorIs(t, err, ErrZipNotFound)
}

func TestZipCentroidEmptyPlaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"places":[]}`))
	}))
	defer srv.Close()

	_, _, err := testClient(srv.URL, "").ZipCentroid(context.Background(), "94110")
	assert.ErrorIs(t, err, ErrZipNotFound)
}

func TestGeographies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/geographies/coordinates", r.URL.Path)
		assert.Equal(t, "-122.4156", q.Get("x"))
		assert.Equal(t, "37.7485", q.Get("y"))
		assert.Equal(t, "Public_AR_Current", q.Get("benchmark"))
		_, _ = w.Write([]byte(`{"result":{"geographies":{"119th Congressional Districts":[{"CD119":"11","STATE":"06"}]}}}`))
	}))
	defer srv.Close()

	geo, err := testClient("", srv.URL).Geographies(context.Background(), 37.7485, -122.4156)
	require.NoError(t, err)
	require.Contains(t, geo, "119th Congressional Districts")
}

func TestGeographiesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"geographies":{}}}`))
	}))
	defer srv.Close()

	_, err := testClient("", srv.URL).Geographies(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNoGeographies)
}

func TestGeographiesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient("", srv.URL).Geographies(context.Background(), 1, 2)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoGeographies)
}
