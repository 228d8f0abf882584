package httpx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/gate"
	"github.com/ariefcatur/go-storefront/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthzAndMetrics(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	reg := prometheus.NewRegistry()
	metrics.Register(reg)
	srv := httptest.NewServer(NewRouter(log, reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "storefront_orders_placed_total")
}

func TestSessionCookieIssuedOnce(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{})
	c := newClient(t)

	resp := call(t, c, http.MethodGet, srv.URL+"/api/cart", nil, nil)
	var issued *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie {
			issued = ck
		}
	}
	require.NotNil(t, issued)
	assert.True(t, issued.HttpOnly)
	assert.NotEmpty(t, issued.Value)

	resp = call(t, c, http.MethodGet, srv.URL+"/api/cart", nil, nil)
	assert.Empty(t, resp.Cookies(), "known session keeps its cookie")
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	srv := httptest.NewServer(NewRouter(log, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, http.StatusNotFound, entry.Data["http.resp.status"])
	assert.Equal(t, "/nope", entry.Data["http.req.path"])
}

func TestGuardedRoutes(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	g, err := gate.New("demo123", gate.Options{}, log)
	require.NoError(t, err)

	r := NewRouter(log, nil)
	g.Register(r)
	Mount(r, g.Middleware, &CatalogHandler{Catalog: &fakeCatalog{}, PageSize: 12})
	srv := httptest.NewServer(r)
	defer srv.Close()
	c := newClient(t)

	resp := call(t, c, http.MethodGet, srv.URL+"/api/categories", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, c, http.MethodGet, srv.URL+"/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, c, http.MethodPost, srv.URL+gate.AuthPath, map[string]string{"password": "demo123"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, c, http.MethodGet, srv.URL+"/api/categories", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "auth cookie opens the site")
}
