package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockdebug/internal/config"
)

type stubLauncher struct {
	launchResult *RunResultDTO
	launchErr    error
	getResult    *RunResultDTO
	getErr       error
	listResult   []RunResultDTO
	listErr      error
}

func (s *stubLauncher) Launch(_ context.Context, _ RunRequest) (*RunResultDTO, error) {
	return s.launchResult, s.launchErr
}
func (s *stubLauncher) Get(_ context.Context, _ string) (*RunResultDTO, error) {
	return s.getResult, s.getErr
}
func (s *stubLauncher) List(_ context.Context, _ int) ([]RunResultDTO, error) {
	return s.listResult, s.listErr
}

func testConfig() *config.Config {
	return &config.Config{
		CORSAllowedOrigins: []string{"*"},
		RateLimitRPS:       1000,
		RateLimitBurst:     1000,
	}
}

func TestRouter_CreateRunHappyPath(t *testing.T) {
	launcher := &stubLauncher{launchResult: &RunResultDTO{ID: "run-1", Status: "succeeded"}}
	router := NewRouter(Deps{Cfg: testConfig(), Runner: launcher})

	body, _ := json.Marshal(RunRequest{LeftCSVPath: "l.csv", RightCSVPath: "r.csv", LeftKey: "id", RightKey: "id", OutputSize: 5})
	req := httptest.NewRequest(http.MethodPost, "/v1/runs/", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got RunResultDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "run-1", got.ID)
}

func TestRouter_CreateRunMalformedBodyRejected(t *testing.T) {
	launcher := &stubLauncher{}
	router := NewRouter(Deps{Cfg: testConfig(), Runner: launcher})

	req := httptest.NewRequest(http.MethodPost, "/v1/runs/", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_GetRunUnclassifiedErrorReturns500(t *testing.T) {
	launcher := &stubLauncher{getErr: assert.AnError}
	router := NewRouter(Deps{Cfg: testConfig(), Runner: launcher})

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/ghost", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_GetRunHappyPath(t *testing.T) {
	launcher := &stubLauncher{getResult: &RunResultDTO{ID: "run-1", Status: "succeeded"}}
	router := NewRouter(Deps{Cfg: testConfig(), Runner: launcher})

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/run-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ListRuns(t *testing.T) {
	launcher := &stubLauncher{listResult: []RunResultDTO{{ID: "run-1"}, {ID: "run-2"}}}
	router := NewRouter(Deps{Cfg: testConfig(), Runner: launcher})

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []RunResultDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestRouter_UnauthenticatedRejectedWhenJWTConfigured(t *testing.T) {
	launcher := &stubLauncher{launchResult: &RunResultDTO{ID: "run-1"}}
	cfg := testConfig()
	cfg.JWTSecret = "s3cr3t"
	router := NewRouter(Deps{Cfg: cfg, Runner: launcher})

	body, _ := json.Marshal(RunRequest{})
	req := httptest.NewRequest(http.MethodPost, "/v1/runs/", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_UnknownRouteReturns404(t *testing.T) {
	router := NewRouter(Deps{Cfg: testConfig(), Runner: &stubLauncher{}})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
