package transport

import (
	"net/http"

	"golang.org/x/time/rate"
)

// limitedTransport blocks each request until the limiter grants a token or
// the request context is done.
type limitedTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}

// roundTripper returns the base transport wrapped with the configured limit.
func roundTripper(cfg Config) http.RoundTripper {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.RateLimit <= 0 {
		return base
	}
	return &limitedTransport{
		next:    base,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}
}
