package sdk

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ZerologTelemetry adapts a zerolog logger into TelemetryHooks: every SDK
// request, response, and internal log event lands in the logger with
// structured fields. Compose with custom hooks by filling in the remaining
// fields on the returned struct.
func ZerologTelemetry(logger zerolog.Logger) TelemetryHooks {
	return TelemetryHooks{
		OnHTTPRequest: func(ctx context.Context, req *http.Request) {
			logger.Debug().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Msg("sdk request")
		},
		OnHTTPResponse: func(ctx context.Context, req *http.Request, resp *http.Response, err error, latency time.Duration) {
			evt := logger.Debug()
			if err != nil {
				evt = logger.Warn().Err(err)
			} else if resp.StatusCode >= 500 {
				evt = logger.Warn().Int("status", resp.StatusCode)
			} else {
				evt = evt.Int("status", resp.StatusCode)
			}
			evt.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Dur("latency", latency).
				Msg("sdk response")
		},
		OnLogEntry: func(ctx context.Context, entry LogEntry) {
			evt := logger.Info()
			if entry.Level == LogLevelError {
				evt = logger.Error()
			}
			evt.Fields(entry.Fields).Msg(entry.Message)
		},
		OnMetric: func(ctx context.Context, metric Metric) {
			logger.Trace().
				Float64("value", metric.Value).
				Fields(map[string]any{"labels": metric.Labels}).
				Msg(metric.Name)
		},
	}
}
