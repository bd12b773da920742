package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProber(retries int) *Prober {
	return NewProber(Options{
		Retries: retries,
		Delay:   20 * time.Millisecond,
		Timeout: 300 * time.Millisecond,
	})
}

func TestProbeSuccessFirstAttempt(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	start := time.Now()
	result := testProber(1).Probe(context.Background(), srv.URL)

	assert.True(t, result.Success)
	assert.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, 1, result.Attempts)
	assert.Empty(t, result.Error)
	assert.EqualValues(t, 1, hits.Load())
	assert.Less(t, time.Since(start), 20*time.Millisecond*2, "a successful first attempt must not sleep")
}

func TestProbeRecoversOnRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := testProber(1).Probe(context.Background(), srv.URL)

	assert.True(t, result.Success)
	assert.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, 2, result.Attempts)
	assert.Empty(t, result.Error)
}

func TestProbeExhaustsRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Different status per attempt so the last one is observable.
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	result := testProber(1).Probe(context.Background(), srv.URL)

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, http.StatusServiceUnavailable, result.Status, "last attempt wins")
	assert.Equal(t, "HTTP 503: Service Unavailable", result.Error)
	assert.EqualValues(t, 2, hits.Load())
}

func TestProbeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	prober := NewProber(Options{
		Retries: 0,
		Delay:   10 * time.Millisecond,
		Timeout: 50 * time.Millisecond,
	})
	result := prober.Probe(context.Background(), srv.URL)

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.Zero(t, result.Status)
	assert.NotEmpty(t, result.Error, "timeout becomes a result, not a panic or error return")
}

func TestProbeConnectionRefused(t *testing.T) {
	// Reserve a port, then close the listener so nothing is listening.
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close()

	result := testProber(0).Probe(context.Background(), url)

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.NotEmpty(t, result.Error)
}

func TestProbeTransportErrorAfterHTTPResponse(t *testing.T) {
	started := make(chan struct{})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			close(started)
			time.Sleep(150 * time.Millisecond)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// Take the server down after the first attempt so the retry fails at
	// the transport level instead of getting another HTTP response.
	go func() {
		<-started
		srv.Close()
	}()

	result := testProber(1).Probe(context.Background(), srv.URL)

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.Attempts)
	assert.Zero(t, result.Status, "no HTTP response on the final attempt")
	assert.NotEmpty(t, result.Error)
	assert.NotContains(t, result.Error, "HTTP", "transport failure replaces the earlier HTTP outcome")
	assert.Less(t, result.ResponseTimeMs, int64(150),
		"latency belongs to the attempt that produced the outcome, not the earlier 500")
}

func TestProbeContextCancelledDuringDelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	prober := NewProber(Options{
		Retries: 5,
		Delay:   time.Minute,
		Timeout: 300 * time.Millisecond,
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result := prober.Probe(ctx, srv.URL)

	require.Less(t, time.Since(start), 5*time.Second, "cancel must cut the inter-attempt delay short")
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
}

func TestProbeAllPreservesOrder(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer bad.Close()

	urls := []string{ok.URL, bad.URL, ok.URL}
	results := testProber(0).ProbeAll(context.Background(), urls)

	require.Len(t, results, 3)
	for i, url := range urls {
		assert.Equal(t, url, results[i].URL, "results keep input order")
	}
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.True(t, results[2].Success)
}
