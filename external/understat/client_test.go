package understat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/logging"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/resilience"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/usecase"
)

const leagueDataFixture = `{
	"teams": {
		"83": {"id": "83", "title": "Arsenal", "history": [{"xG": 2.1, "xGA": 0.4}, {"xG": "1.3", "xGA": "0.9"}]},
		"87": {"id": "87", "title": "Liverpool", "history": [{"xG": 2.8, "xGA": 1.0}]},
		"90": {"id": "90", "title": "Ipswich", "history": []}
	},
	"dates": [
		{"id": "26600", "isResult": true, "h": {"id": "83", "title": "Arsenal", "short_title": "ARS"}, "a": {"id": "87", "title": "Liverpool", "short_title": "LIV"}, "datetime": "2025-01-20 16:30:00"},
		{"id": "26702", "isResult": false, "h": {"id": "87", "title": "Liverpool", "short_title": "LIV"}, "a": {"id": "90", "title": "Ipswich", "short_title": "IPS"}, "datetime": "2025-02-22 15:00:00"},
		{"id": "26701", "isResult": false, "h": {"id": "90", "title": "Ipswich", "short_title": "IPS"}, "a": {"id": "83", "title": "Arsenal", "short_title": "ARS"}, "datetime": "2025-02-15 12:30:00"},
		{"id": "26703", "isResult": false, "h": {"id": "83", "title": "Arsenal", "short_title": "ARS"}, "a": {"id": "87", "title": "Liverpool", "short_title": "LIV"}, "datetime": "TBC"}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*ClientConfig)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		BaseURL:      server.URL,
		League:       "EPL",
		Season:       2024,
		Timeout:      2 * time.Second,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func TestClient_FetchSeasonRecords(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/getLeagueData/EPL/2024" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Requested-With"); got != "XMLHttpRequest" {
			t.Errorf("expected X-Requested-With header, got %q", got)
		}
		_, _ = w.Write([]byte(leagueDataFixture))
	}, nil)

	records, err := client.FetchSeasonRecords(context.Background())
	if err != nil {
		t.Fatalf("fetch season records: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	arsenal := records[0]
	if arsenal.Team != "Arsenal" || arsenal.ShortName != "ARS" {
		t.Fatalf("unexpected first record %+v", arsenal)
	}
	if arsenal.Matches != 2 {
		t.Fatalf("expected 2 matches, got %d", arsenal.Matches)
	}
	if arsenal.XG < 3.399 || arsenal.XG > 3.401 {
		t.Fatalf("expected xG 3.4, got %f", arsenal.XG)
	}
	if records[1].Team != "Ipswich" || records[1].Matches != 0 {
		t.Fatalf("unexpected second record %+v", records[1])
	}
}

func TestClient_FetchUpcomingMatches(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(leagueDataFixture))
	}, nil)

	matches, err := client.FetchUpcomingMatches(context.Background())
	if err != nil {
		t.Fatalf("fetch upcoming matches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 upcoming matches, got %d", len(matches))
	}
	if matches[0].ID != "26701" || matches[0].HomeShort != "IPS" || matches[0].AwayTeam != "Arsenal" {
		t.Fatalf("unexpected first match %+v", matches[0])
	}
	want := time.Date(2025, 2, 15, 12, 30, 0, 0, time.UTC)
	if !matches[0].KickoffAt.Equal(want) {
		t.Fatalf("unexpected kickoff %s", matches[0].KickoffAt)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(leagueDataFixture))
	}, func(cfg *ClientConfig) {
		cfg.MaxRetries = 2
	})

	if _, err := client.FetchSeasonRecords(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, func(cfg *ClientConfig) {
		cfg.MaxRetries = 3
	})

	_, err := client.FetchUpcomingMatches(context.Background())
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single call, got %d", got)
	}
}

func TestClient_CircuitBreakerRejectsAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		}
	})

	if _, err := client.FetchSeasonRecords(context.Background()); err == nil {
		t.Fatalf("expected first call to fail")
	}

	_, err := client.FetchSeasonRecords(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected breaker to short-circuit the second call, got %d calls", got)
	}
}

func TestClient_MalformedPayload(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>blocked</html>`))
	}, nil)

	if _, err := client.FetchSeasonRecords(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}
