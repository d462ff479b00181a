package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/segmap/internal/census"
	"github.com/sells-group/segmap/internal/style"
)

func newTestRouter(t *testing.T, styled []byte) http.Handler {
	t.Helper()

	idx := census.Index{
		"170318390002": census.Record{"10", "0", "9", "1", "0", "0", "0", "0", "0"},
		"170318390003": census.Record{"2", "0", "2", "0", "0", "0", "0", "0", "0"},
		"170318390004": census.Record{"10", "0", "bad", "0", "0", "0", "0", "0", "0"},
	}
	enc, err := style.NewEncoder(census.DefaultCatalog(), style.DefaultPalette(), style.Options{
		DominanceThreshold: 0.65,
	})
	require.NoError(t, err)

	return newRouter(idx, enc, styled)
}

func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServeHealthz(t *testing.T) {
	rec := doGet(t, newTestRouter(t, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeLegend(t *testing.T) {
	rec := doGet(t, newTestRouter(t, nil), "/api/legend")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []style.LegendEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, len(census.DefaultCatalog()))
	assert.Equal(t, "White", entries[0].Label)
}

func TestServeBlockStyle(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("dominant block", func(t *testing.T) {
		rec := doGet(t, router, "/api/blocks/170318390002/style")
		require.Equal(t, http.StatusOK, rec.Code)

		var st style.Style
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
		assert.True(t, st.Visible)
		assert.Equal(t, style.DefaultPalette()[0], st.FillColor)
	})

	t.Run("sparse block is invisible", func(t *testing.T) {
		rec := doGet(t, router, "/api/blocks/170318390003/style")
		require.Equal(t, http.StatusOK, rec.Code)

		var st style.Style
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
		assert.False(t, st.Visible)
	})

	t.Run("unknown geoid is invisible", func(t *testing.T) {
		rec := doGet(t, router, "/api/blocks/999999999999/style")
		require.Equal(t, http.StatusOK, rec.Code)

		var st style.Style
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
		assert.False(t, st.Visible)
	})

	t.Run("malformed record is a 500", func(t *testing.T) {
		rec := doGet(t, router, "/api/blocks/170318390004/style")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestServeBlockTooltip(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("dominant block", func(t *testing.T) {
		rec := doGet(t, router, "/api/blocks/170318390002/tooltip")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"tooltip":"90.0% White (population 10)"}`, rec.Body.String())
	})

	t.Run("sparse block has none", func(t *testing.T) {
		rec := doGet(t, router, "/api/blocks/170318390003/tooltip")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServeFeatures(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		rec := doGet(t, newTestRouter(t, nil), "/api/features")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("serves pre-styled bytes", func(t *testing.T) {
		styled := []byte(`{"type":"FeatureCollection","features":[]}`)
		rec := doGet(t, newTestRouter(t, styled), "/api/features")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
		assert.Equal(t, string(styled), rec.Body.String())
	})
}
