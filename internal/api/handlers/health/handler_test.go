package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/infra/cache"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/logger"
)

func okCheck(context.Context) error { return nil }

func newDirectoryCache(t *testing.T) (*cache.DirectoryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewDirectoryCache(memory.NewStore().Directory(), client, time.Minute, logger.Nop()), mr
}

func TestHandle_AllHealthy(t *testing.T) {
	directory, _ := newDirectoryCache(t)

	h := NewHandler(map[string]Checker{
		"postgres": CheckerFunc(okCheck),
		"redis":    CheckerFunc(directory.Ping),
	}, time.Second, logger.Nop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, map[string]string{"postgres": "ok", "redis": "ok"}, body.Checks)
}

func TestHandle_Degraded(t *testing.T) {
	h := NewHandler(map[string]Checker{
		"postgres": CheckerFunc(okCheck),
		"redis":    CheckerFunc(func(context.Context) error { return errors.New("connection refused") }),
	}, time.Second, logger.Nop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body.Status)
	assert.Equal(t, "connection refused", body.Checks["redis"])
	assert.Equal(t, "ok", body.Checks["postgres"])
}

func TestHandle_DirectoryCacheRedisDown(t *testing.T) {
	directory, mr := newDirectoryCache(t)
	h := NewHandler(map[string]Checker{
		"postgres": CheckerFunc(okCheck),
		"redis":    CheckerFunc(directory.Ping),
	}, time.Second, logger.Nop())
	mr.Close()

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEqual(t, "ok", body.Checks["redis"])
	assert.Equal(t, "ok", body.Checks["postgres"])
}
