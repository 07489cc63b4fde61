// Package httputil provides the HTTP plumbing used to fetch remote datasets
// such as solved-problem counts.
//
//   - [Client]: GET with JSON decoding, default headers, status mapping and
//     response caching through a [cache.Cache]
//   - [Retry]: exponential backoff for errors wrapped in [RetryableError]
//
// Transient failures (connection errors, 5xx) are retried; 404 maps to
// [ErrNotFound] and is returned immediately.
package httputil
