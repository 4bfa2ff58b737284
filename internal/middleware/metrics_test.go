package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMetricsBuilder_LabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	b := NewMetricsBuilder(reg)

	r := chi.NewRouter()
	r.Use(b.Build())
	r.Get("/views/{viewId}", func(w http.ResponseWriter, r *http.Request) {})
	r.Delete("/views/{viewId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/views/"+id, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/views/a", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(b.counterVec.WithLabelValues(http.MethodGet, "/views/{viewId}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.counterVec.WithLabelValues(http.MethodDelete, "/views/{viewId}", "204")))
	assert.Equal(t, 2, testutil.CollectAndCount(b.counterVec))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/views", nil))

	entries := logs.FilterMessage("http request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, http.MethodPost, fields["method"])
		assert.Equal(t, "/views", fields["path"])
		assert.Equal(t, int64(http.StatusTeapot), fields["status"])
		assert.Equal(t, int64(2), fields["bytes"])
	}
}
