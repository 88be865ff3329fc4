package purge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PurgeKey(t *testing.T) {
	var gotPath, gotMethod, gotToken, gotSoft string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotToken = r.Header.Get("Fastly-Key")
		gotSoft = r.Header.Get("Fastly-Soft-Purge")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","id":"123-abc"}`))
	}))
	defer server.Close()

	client := NewClient("test-token", WithAPIBase(server.URL))
	result, err := client.PurgeKey(context.Background(), "dev-svc-1", "homepage")

	require.NoError(t, err)
	assert.Equal(t, "/service/dev-svc-1/purge/homepage", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "test-token", gotToken)
	assert.Empty(t, gotSoft)
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "123-abc", result.ID)
	assert.Equal(t, "dev-svc-1", result.ServiceID)
	assert.Equal(t, "homepage", result.Key)
}

func TestClient_PurgeKeySoft(t *testing.T) {
	var gotSoft string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSoft = r.Header.Get("Fastly-Soft-Purge")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := NewClient("test-token", WithAPIBase(server.URL), WithSoftPurge(true))
	_, err := client.PurgeKey(context.Background(), "dev-svc-1", "homepage")

	require.NoError(t, err)
	assert.Equal(t, "1", gotSoft)
}

func TestClient_PurgeAll(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := NewClient("test-token", WithAPIBase(server.URL))
	result, err := client.PurgeAll(context.Background(), "dev-svc-1")

	require.NoError(t, err)
	assert.Equal(t, "/service/dev-svc-1/purge_all", gotPath)
	assert.Equal(t, "dev-svc-1", result.ServiceID)
}

func TestClient_PurgeURL(t *testing.T) {
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := NewClient("test-token")
	_, err := client.PurgeURL(context.Background(), server.URL+"/some/page")

	require.NoError(t, err)
	assert.Equal(t, "PURGE", gotMethod)
}

func TestClient_PurgeURLRejectsInvalid(t *testing.T) {
	client := NewClient("test-token")
	_, err := client.PurgeURL(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestClient_NoRetryOnFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-token", WithAPIBase(server.URL))
	_, err := client.PurgeKey(context.Background(), "dev-svc-1", "homepage")

	assert.Error(t, err)
	assert.Equal(t, 1, attempts, "purges are fire-once: no retries")
}

func TestClient_BreakerTripsAfterConsecutiveFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-token", WithAPIBase(server.URL))
	for i := 0; i < 5; i++ {
		_, err := client.PurgeKey(context.Background(), "dev-svc-1", "homepage")
		assert.Error(t, err)
	}

	assert.Equal(t, defaultBreakerFailures, attempts,
		"breaker must stop hitting the API after consecutive failures")
}

func TestClient_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("bad-token", WithAPIBase(server.URL))
	_, err := client.PurgeKey(context.Background(), "dev-svc-1", "homepage")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_PlainTextResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}))
	defer server.Close()

	client := NewClient("test-token", WithAPIBase(server.URL))
	result, err := client.PurgeAll(context.Background(), "dev-svc-1")

	require.NoError(t, err)
	assert.Equal(t, "ok", result.Status)
}
