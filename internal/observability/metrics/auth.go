package metrics

import (
	"time"

	obserrors "github.com/samprabha/portal/internal/observability/errors"
	"github.com/samprabha/portal/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultDenied  = "denied"
)

// AuthEvent captures details about an authentication event for metric emission.
type AuthEvent struct {
	Provider string
	Flow     string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitAuthEvent emits standardised authentication metrics to a StatsD sink.
func EmitAuthEvent(sink statsd.Sink, in AuthEvent) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"provider": in.Provider,
		"flow":     in.Flow,
		"result":   in.Result,
	}

	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("auth.event", 1, tags)

	if in.Duration > 0 {
		sink.Timing("auth.duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
