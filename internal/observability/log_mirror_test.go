package observability

import (
	"errors"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/logging"
)

func TestIsProbeAccessLog(t *testing.T) {
	tests := []struct {
		msg  string
		args []any
		want bool
	}{
		{msg: "http request", args: []any{"method", "GET", "path", "/healthz"}, want: true},
		{msg: "http request", args: []any{"path", "/v1/fixture-difficulty"}, want: false},
		{msg: "understat request failed", args: []any{"path", "/healthz"}, want: false},
	}

	for _, tt := range tests {
		if got := isProbeAccessLog(tt.msg, tt.args); got != tt.want {
			t.Fatalf("isProbeAccessLog(%q, %v) = %v, want %v", tt.msg, tt.args, got, tt.want)
		}
	}
}

func TestLogAttributes(t *testing.T) {
	attrs := logAttributes([]any{"league", "EPL", "attempt", 2, 7, "x", "dangling"})
	if len(attrs) != 4 {
		t.Fatalf("expected 4 attributes, got %d", len(attrs))
	}

	if attrs[0].Key != "league" || attrs[0].Value.AsString() != "EPL" {
		t.Fatalf("unexpected first attribute %v", attrs[0])
	}
	if attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("expected attempt 2, got %v", attrs[1].Value)
	}
	if attrs[2].Key != "arg_2" {
		t.Fatalf("expected non-string key renamed to arg_2, got %q", attrs[2].Key)
	}
	if attrs[3].Key != "dangling" || attrs[3].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("expected dangling key with empty value, got %v", attrs[3])
	}
}

func TestLogValue(t *testing.T) {
	if kind := logValue(1.25).Kind(); kind != otellog.KindFloat64 {
		t.Fatalf("expected float kind, got %v", kind)
	}

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "error", in: errors.New("boom"), want: "boom"},
		{name: "duration", in: 1500 * time.Millisecond, want: "1.5s"},
		{name: "slice", in: []int{1, 3, 5, 8}, want: `[1,3,5,8]`},
		{name: "map", in: map[string]int{"min_gw": 24}, want: `{"min_gw":24}`},
	}
	for _, tt := range tests {
		if got := logValue(tt.in).AsString(); got != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

func TestSeverityFor(t *testing.T) {
	tests := map[logging.Level]otellog.Severity{
		logging.LevelDebug: otellog.SeverityDebug,
		logging.LevelWarn:  otellog.SeverityWarn,
		logging.LevelError: otellog.SeverityError,
	}
	for level, want := range tests {
		if got := severityFor(level); got != want {
			t.Fatalf("severityFor(%v) = %v, want %v", level, got, want)
		}
	}
}
