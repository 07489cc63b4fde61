package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillgalaxy/pkg/observability"
)

// logHooks forwards observability events to the debug log, so --verbose
// shows stage timings, cache traffic and proficiency fetches.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) *logHooks { return &logHooks{logger: l} }

func (h *logHooks) OnBuildStart(_ context.Context, catalog string) {
	h.logger.Debug("build started", "catalog", catalog)
}

func (h *logHooks) OnBuildComplete(_ context.Context, catalog string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "catalog", catalog, "err", err)
		return
	}
	h.logger.Debug("build finished", "nodes", nodes, "edges", edges, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnLayoutStart(_ context.Context, nodes int) {
	h.logger.Debug("layout started", "nodes", nodes)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, quality float64, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "err", err)
		return
	}
	h.logger.Debug("layout finished", "quality", quality, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render finished", "formats", formats, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
	_ observability.HTTPHooks     = (*logHooks)(nil)
)
