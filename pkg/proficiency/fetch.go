package proficiency

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/skillgalaxy/pkg/cache"
	"github.com/matzehuels/skillgalaxy/pkg/errors"
	"github.com/matzehuels/skillgalaxy/pkg/httputil"
)

// Fetcher downloads datasets over HTTP with retry and response caching.
type Fetcher struct {
	client *httputil.Client
}

// NewFetcher creates a fetcher caching responses in c for ttl.
// ttl <= 0 uses cache.TTLHTTP.
func NewFetcher(c cache.Cache, ttl time.Duration) *Fetcher {
	if ttl <= 0 {
		ttl = cache.TTLHTTP
	}
	return &Fetcher{client: httputil.NewClient(c, "proficiency", ttl, nil)}
}

// Client exposes the underlying HTTP client for configuration.
func (f *Fetcher) Client() *httputil.Client { return f.client }

// Fetch downloads the dataset at url. refresh bypasses the response cache.
// Only payloads that parse are cached.
func (f *Fetcher) Fetch(ctx context.Context, url string, refresh bool) (Dataset, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}
	var ds Dataset
	err := f.client.Cached(ctx, url, refresh, &ds, func() error {
		var raw json.RawMessage
		if err := f.client.Get(ctx, url, &raw); err != nil {
			return err
		}
		parsed, err := parse(raw)
		if err != nil {
			return err
		}
		ds = parsed
		return nil
	})
	switch {
	case errors.Is(err, errors.ErrCodeInvalidFormat):
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "proficiency from %s", url)
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch proficiency from %s", url)
	}
	if ds == nil {
		ds = Dataset{}
	}
	return ds, nil
}
