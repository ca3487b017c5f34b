package understat

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/fixture"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/schedule"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/teamstrength"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/logging"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/resilience"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/usecase"
)

const (
	defaultBaseURL  = "https://understat.com"
	defaultLeague   = "EPL"
	kickoffLayout   = "2006-01-02 15:04:05"
	maxResponseSize = 6 << 20
)

var errUnderstatTransient = crerr.New("understat transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	League         string
	Season         int
	Timeout        time.Duration
	MaxRetries     int
	RateLimit      time.Duration
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads league data from Understat's JSON endpoint.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	league       string
	season       int
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	limiter      *rate.Limiter
	breaker      *resilience.CircuitBreaker
	flight       resilience.Group[[]byte]
}

var _ schedule.Provider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	league := strings.TrimSpace(cfg.League)
	if league == "" {
		league = defaultLeague
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Every(cfg.RateLimit)
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		league:       league,
		season:       cfg.Season,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		logger:       logger.With("provider", "understat"),
		limiter:      rate.NewLimiter(limit, 1),
		breaker:      resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

// FetchSeasonRecords sums each team's match history into a season record.
func (c *Client) FetchSeasonRecords(ctx context.Context) ([]teamstrength.SeasonRecord, error) {
	data, err := c.fetchLeagueData(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch season records league=%s season=%d: %w", c.league, c.season, err)
	}

	shortNames := shortTitles(data.Dates)
	out := make([]teamstrength.SeasonRecord, 0, len(data.Teams))
	for _, team := range data.Teams {
		title := strings.TrimSpace(team.Title)
		if title == "" {
			continue
		}

		record := teamstrength.SeasonRecord{
			Team:      title,
			ShortName: shortNames[title],
			Matches:   len(team.History),
		}
		for _, result := range team.History {
			record.XG += fixture.CoerceStat(result.XG)
			record.XGA += fixture.CoerceStat(result.XGA)
		}
		out = append(out, record)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out, nil
}

// FetchUpcomingMatches returns unplayed matches ordered by kickoff.
func (c *Client) FetchUpcomingMatches(ctx context.Context) ([]schedule.Match, error) {
	data, err := c.fetchLeagueData(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch upcoming matches league=%s season=%d: %w", c.league, c.season, err)
	}

	out := make([]schedule.Match, 0, len(data.Dates))
	skipped := 0
	for _, item := range data.Dates {
		if item.IsResult {
			continue
		}

		kickoff, parseErr := time.ParseInLocation(kickoffLayout, strings.TrimSpace(item.Datetime), time.UTC)
		if parseErr != nil {
			skipped++
			c.logger.WarnContext(ctx, "skip understat match with invalid datetime", "match_id", idString(item.ID), "datetime", item.Datetime)
			continue
		}
		if strings.TrimSpace(item.Home.Title) == "" || strings.TrimSpace(item.Away.Title) == "" {
			skipped++
			continue
		}

		out = append(out, schedule.Match{
			ID:        idString(item.ID),
			HomeTeam:  strings.TrimSpace(item.Home.Title),
			HomeShort: strings.TrimSpace(item.Home.ShortTitle),
			AwayTeam:  strings.TrimSpace(item.Away.Title),
			AwayShort: strings.TrimSpace(item.Away.ShortTitle),
			KickoffAt: kickoff,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	if skipped > 0 {
		c.logger.WarnContext(ctx, "understat matches skipped", "count", skipped)
	}
	return out, nil
}

func (c *Client) fetchLeagueData(ctx context.Context) (leagueDataEnvelope, error) {
	path := fmt.Sprintf("/getLeagueData/%s/%d", url.PathEscape(c.league), c.season)

	var envelope leagueDataEnvelope
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return leagueDataEnvelope{}, err
	}
	return envelope, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	fullURL := c.baseURL + path

	raw, err, _ := c.flight.Do(path, func() ([]byte, error) {
		var body []byte
		execErr := c.breaker.Execute(func() error {
			var reqErr error
			body, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		}, isUnderstatCircuitFailure)
		return body, execErr
	})
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "understat circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode understat payload")
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, crerr.Wrap(err, "wait for rate limiter")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = crerr.Wrapf(errUnderstatTransient, "send request: %v", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errUnderstatTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(errUnderstatTransient, "provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: understat has no data for %s", usecase.ErrNotFound, redactPath(fullURL))
			default:
				return nil, crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("provider request failed")
	}
	c.logger.WarnContext(ctx, "understat request failed", "url", redactPath(fullURL), "attempts", c.maxRetries+1, "error", lastErr)
	return nil, lastErr
}

func isUnderstatCircuitFailure(err error) bool {
	return err != nil && crerr.Is(err, errUnderstatTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func shortTitles(matches []Match) map[string]string {
	out := make(map[string]string, 32)
	for _, item := range matches {
		for _, side := range []MatchSide{item.Home, item.Away} {
			title := strings.TrimSpace(side.Title)
			if title == "" || side.ShortTitle == "" {
				continue
			}
			out[title] = strings.TrimSpace(side.ShortTitle)
		}
	}
	return out
}

func idString(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		return strconv.FormatInt(int64(value), 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(value)
	}
}

func redactPath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.RawQuery = ""
	parsed.User = nil
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
