package echoapi_test

import (
	"context"
	"database/sql/driver"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/lumen-youth/lumen/apps/api/echo"
	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/program"
	"github.com/lumen-youth/lumen/tests"
)

func TestServer_home(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Lumen API!", rec.Body.String())

	e.run(t, []httpTest{
		{name: "healthz", path: "/healthz", wantData: map[string]string{"status": "ok"}},
		{name: "trailing slash", path: "/healthz/", wantData: map[string]string{"status": "ok"}},
		{name: "unknown route", path: "/api/nope", wantCode: http.StatusNotFound, wantData: httpErr{Error: "Not Found"}},
	})
}

func TestServer_metrics(t *testing.T) {
	e := newEnv(t)

	e.do(t, http.MethodGet, "/healthz", "", nil)
	e.do(t, http.MethodGet, "/healthz", "", nil)
	e.do(t, http.MethodGet, "/api/admin/users", "", nil)

	rec := e.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `lumen_http_requests_total{code="200",method="GET",route="/healthz"} 2`)
	assert.Contains(t, body, `lumen_http_requests_total{code="401",method="GET",route="/api/admin/users"} 1`)
	assert.Contains(t, body, `lumen_http_request_duration_seconds_count{method="GET",route="/healthz"} 2`)
	assert.Contains(t, body, "go_goroutines")
}

func TestServer_redirect(t *testing.T) {
	e := newEnv(t, func(conf *core.Config) {
		conf.Redirect = core.RedirectConfig{
			CanonicalHost:    "lumen.church",
			LegacyHosts:      []string{"old-lumen.org", "www.old-lumen.org"},
			PreservedPaths:   []string{"/api/programs/*"},
			PassThroughPaths: []string{"/healthz"},
		}
	})

	tests := []struct {
		name         string
		host         string
		path         string
		wantCode     int
		wantLocation string
	}{
		{name: "canonical host", host: "lumen.church", path: "/healthz", wantCode: http.StatusOK},
		{name: "pass through", host: "old-lumen.org", path: "/healthz", wantCode: http.StatusOK},
		{
			name: "preserved path", host: "www.old-lumen.org:8080", path: "/api/programs/upcoming?days=30",
			wantCode: http.StatusMovedPermanently, wantLocation: "http://lumen.church/api/programs/upcoming?days=30",
		},
		{
			name: "any other path", host: "old-lumen.org", path: "/about-us",
			wantCode: http.StatusMovedPermanently, wantLocation: "http://lumen.church/",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Host = tt.host
			rec := e.serve(req)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
		})
	}
}

// failingProgramRepo fails every query with err.
type failingProgramRepo struct {
	program.Repository
	err error
}

func (r failingProgramRepo) QueryPrograms(context.Context, *program.QueryFilter, []core.DBOrdering) ([]program.Program, error) {
	return nil, errors.Wrap(r.err, "selecting programs")
}

func TestServer_shutdownOnLostDBConnection(t *testing.T) {
	newServer := func(err error) *echoapi.Server {
		conf := core.NewTestConfig()
		validate, translator := testutil.NewValidator()
		return echoapi.NewServer(echoapi.Deps{
			Conf:       conf,
			Logger:     testutil.NewLogger(conf),
			Validate:   validate,
			Translator: translator,
			ProgramSvc: program.NewService(failingProgramRepo{err: err}, conf),
		})
	}
	shuttingDown := func(srv *echoapi.Server) bool {
		select {
		case <-srv.ShutdownSignal():
			return true
		default:
			return false
		}
	}
	get := func(srv *echoapi.Server) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/programs", nil))
		return rec
	}

	srv := newServer(errors.New("boom"))
	checkCodeAndData(t, http.StatusInternalServerError, httpErr{Error: "Internal Server Error"}, get(srv))
	assert.False(t, shuttingDown(srv))

	srv = newServer(driver.ErrBadConn)
	checkCodeAndData(t, http.StatusInternalServerError, httpErr{Error: "Internal Server Error"}, get(srv))
	assert.True(t, shuttingDown(srv))
}
