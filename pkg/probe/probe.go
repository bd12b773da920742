package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	imrocreq "github.com/imroc/req/v3"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

const userAgent = "beacon-health-check/1.0"

// Result is the outcome of probing one URL. A probe never fails outward:
// timeouts, refused connections and non-2xx responses all end up in these
// fields instead of an error return.
type Result struct {
	URL            string `json:"url"`
	Success        bool   `json:"success"`
	Status         int    `json:"status,omitempty"`
	Error          string `json:"error,omitempty"`
	Attempts       int    `json:"attempts"`
	ResponseTimeMs int64  `json:"responseTime,omitempty"`
}

type Options struct {
	// Retries is the number of extra attempts after the first one.
	Retries int
	// Delay is the fixed pause between attempts. A low-frequency liveness
	// probe has no sustained-load concern, so no exponential backoff.
	Delay time.Duration
	// Timeout bounds each individual attempt, not the probe as a whole.
	Timeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Retries: 1,
		Delay:   5 * time.Second,
		Timeout: 10 * time.Second,
	}
}

type Prober struct {
	client *imrocreq.Client
	opts   Options
}

func NewProber(opts Options) *Prober {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	return &Prober{
		client: imrocreq.C().
			SetUserAgent(userAgent).
			SetTimeout(opts.Timeout),
		opts: opts,
	}
}

// Probe issues GET requests against url until one returns a 2xx status or
// retries are exhausted. The last known status and error are kept when every
// attempt fails.
func (p *Prober) Probe(ctx context.Context, url string) Result {
	result := Result{URL: url}

	for attempt := 0; attempt <= p.opts.Retries; attempt++ {
		start := time.Now()
		result.Attempts = attempt + 1

		resp, err := p.client.R().SetContext(ctx).Get(url)
		elapsed := time.Since(start).Milliseconds()

		switch {
		case err != nil:
			result.Status = 0
			result.Error = err.Error()
			result.ResponseTimeMs = elapsed
		case resp.IsSuccessState():
			result.Success = true
			result.Status = resp.StatusCode
			result.Error = ""
			result.ResponseTimeMs = elapsed
			return result
		default:
			result.Status = resp.StatusCode
			result.Error = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
			result.ResponseTimeMs = elapsed
		}

		klog.V(2).Infof("probe %s attempt %d/%d failed: %s", url, attempt+1, p.opts.Retries+1, result.Error)

		if attempt < p.opts.Retries {
			if !sleepContext(ctx, p.opts.Delay) {
				// Caller is gone, report what we have so far.
				return result
			}
		}
	}
	return result
}

// ProbeAll runs one probe per URL concurrently and returns the results in
// input order.
func (p *Prober) ProbeAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))
	g := new(errgroup.Group)
	for i, url := range urls {
		g.Go(func() error {
			results[i] = p.Probe(ctx, url)
			return nil
		})
	}
	// Probes never return errors, Wait only synchronizes.
	_ = g.Wait()
	return results
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
