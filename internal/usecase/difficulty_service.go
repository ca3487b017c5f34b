package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/difficulty"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/fixture"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/cache"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/logging"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

const tableKeyPrefix = "table:"

type DifficultyServiceConfig struct {
	// TeamCount overrides the league size used for rank bands. 0 uses the feed size.
	TeamCount      int
	DefaultAxis    difficulty.AxisStrategy
	CacheTTL       time.Duration
	CacheEnabled   bool
	PrewarmWorkers int
}

type DifficultyService struct {
	repo   fixture.Repository
	cfg    DifficultyServiceConfig
	tables *cache.Store[Table]
	logger *logging.Logger
}

// TableQuery holds raw request parameters. Empty strings select defaults and nil
// bounds select the season range.
type TableQuery struct {
	MinGW       *int
	MaxGW       *int
	Perspective string
	SortBy      string
	Order       string
	Axis        string
}

type Table struct {
	Window       difficulty.Window       `json:"window"`
	Perspective  difficulty.Perspective  `json:"perspective"`
	SortBy       difficulty.Metric       `json:"sort_by"`
	Order        string                  `json:"order"`
	AxisStrategy difficulty.AxisStrategy `json:"axis_strategy"`
	Axis         difficulty.Axis         `json:"gameweeks"`
	TeamCount    int                     `json:"team_count"`
	Means        difficulty.Means        `json:"-"`
	Rows         []TableRow              `json:"rows"`
}

type TableRow struct {
	Team             string               `json:"team"`
	Total            string               `json:"total"`
	TotalOpponentXG  string               `json:"total_opponent_xG"`
	TotalOpponentXGA string               `json:"total_opponent_xGA"`
	Fixtures         fixture.TeamFixtures `json:"fixtures"`
	Cells            []TableCell          `json:"cells"`
}

// TableCell is one rendered column. Fixture is nil for an empty cell.
type TableCell struct {
	Gameweek int              `json:"gameweek"`
	Fixture  *fixture.Fixture `json:"fixture,omitempty"`
	Stat     *float64         `json:"stat,omitempty"`
	Band     int              `json:"band"`
	Color    string           `json:"color,omitempty"`
}

type AxisView struct {
	Strategy difficulty.AxisStrategy `json:"strategy"`
	Axis     difficulty.Axis         `json:"gameweeks"`
	MinGW    int                     `json:"min_gw"`
	MaxGW    int                     `json:"max_gw"`
}

type PrewarmResult struct {
	Requested int `json:"requested"`
	Warmed    int `json:"warmed"`
	Failed    int `json:"failed"`
}

type normalizedQuery struct {
	minGW       *int
	maxGW       *int
	perspective difficulty.Perspective
	sortBy      difficulty.Metric
	order       string
	axis        difficulty.AxisStrategy
}

func NewDifficultyService(repo fixture.Repository, cfg DifficultyServiceConfig, logger *logging.Logger) *DifficultyService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DefaultAxis == "" {
		cfg.DefaultAxis = difficulty.AxisUnion
	}
	if cfg.PrewarmWorkers < 1 {
		cfg.PrewarmWorkers = 1
	}

	svc := &DifficultyService{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
	if cfg.CacheEnabled {
		svc.tables = cache.NewStore[Table](cfg.CacheTTL)
	}
	return svc
}

// Feed returns the raw team → fixtures feed.
func (s *DifficultyService) Feed(ctx context.Context) (fixture.LeagueFixtures, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DifficultyService.Feed")
	defer span.End()

	feed, err := s.repo.ListTeamFixtures(ctx)
	if err != nil {
		return nil, fmt.Errorf("list team fixtures: %w", err)
	}
	return feed, nil
}

func (s *DifficultyService) Axis(ctx context.Context, strategy string) (AxisView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DifficultyService.Axis")
	defer span.End()

	parsed, err := s.parseAxis(strategy)
	if err != nil {
		return AxisView{}, err
	}

	feed, err := s.Feed(ctx)
	if err != nil {
		return AxisView{}, err
	}

	axis := difficulty.BuildAxis(parsed, feed)
	minGW, maxGW, _ := axis.Bounds()
	return AxisView{Strategy: parsed, Axis: axis, MinGW: minGW, MaxGW: maxGW}, nil
}

func (s *DifficultyService) BuildTable(ctx context.Context, query TableQuery) (Table, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DifficultyService.BuildTable")
	defer span.End()

	q, err := s.normalize(query)
	if err != nil {
		return Table{}, err
	}

	if s.tables == nil {
		return s.buildTable(ctx, q)
	}
	table, err := s.tables.GetOrLoad(ctx, q.cacheKey(), func(ctx context.Context) (Table, error) {
		return s.buildTable(ctx, q)
	})
	if err != nil {
		span.RecordError(err)
		return Table{}, err
	}
	span.SetAttributes(attribute.Int("table.rows", len(table.Rows)))
	return table, nil
}

// Refresh asks the fixture source to reload when it can, then drops cached tables.
// Tables built while the reload runs are never written back.
func (s *DifficultyService) Refresh(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.DifficultyService.Refresh")
	defer span.End()

	if refresher, ok := s.repo.(fixture.Refresher); ok {
		if err := refresher.Refresh(ctx); err != nil {
			span.RecordError(err)
			return fmt.Errorf("refresh fixture source: %w", err)
		}
	}
	if s.tables != nil {
		s.tables.DeletePrefix(ctx, tableKeyPrefix)
	}
	return nil
}

// Prewarm builds tables for the first N gameweeks of the season for each horizon
// and both perspectives so the first requests hit the cache.
func (s *DifficultyService) Prewarm(ctx context.Context, horizons []int) (PrewarmResult, error) {
	if s.tables == nil || len(horizons) == 0 {
		return PrewarmResult{}, nil
	}

	view, err := s.Axis(ctx, string(s.cfg.DefaultAxis))
	if err != nil {
		return PrewarmResult{}, err
	}
	if len(view.Axis) == 0 {
		return PrewarmResult{}, nil
	}

	queries := make([]TableQuery, 0, len(horizons)*2)
	for _, horizon := range horizons {
		if horizon < 1 {
			continue
		}
		minGW := view.MinGW
		maxGW := min(view.MinGW+horizon-1, view.MaxGW)
		for _, perspective := range []difficulty.Perspective{difficulty.PerspectiveAttack, difficulty.PerspectiveDefence} {
			queries = append(queries, TableQuery{
				MinGW:       &minGW,
				MaxGW:       &maxGW,
				Perspective: string(perspective),
			})
		}
	}

	result := PrewarmResult{Requested: len(queries)}
	if len(queries) == 0 {
		return result, nil
	}

	workerPool, err := ants.NewPool(min(s.cfg.PrewarmWorkers, len(queries)))
	if err != nil {
		return result, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var warmed, failed atomic.Int32
	var workers sync.WaitGroup
	for _, query := range queries {
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()
			if _, err := s.BuildTable(ctx, query); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "prewarm difficulty table failed",
					"min_gw", *query.MinGW,
					"max_gw", *query.MaxGW,
					"perspective", query.Perspective,
					"error", err,
				)
				return
			}
			warmed.Add(1)
		}); err != nil {
			workers.Done()
			return result, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	result.Warmed = int(warmed.Load())
	result.Failed = int(failed.Load())
	s.logger.DebugContext(ctx, "difficulty table cache size", "entries", s.tables.Len())
	return result, nil
}

func (s *DifficultyService) buildTable(ctx context.Context, q normalizedQuery) (Table, error) {
	feed, err := s.Feed(ctx)
	if err != nil {
		return Table{}, err
	}

	seasonAxis := difficulty.BuildAxis(q.axis, feed)
	window := difficulty.Window{}
	if minGW, maxGW, ok := seasonAxis.Bounds(); ok {
		window = difficulty.Window{MinGW: minGW, MaxGW: maxGW}
	}
	if q.minGW != nil {
		window.MinGW = *q.minGW
	}
	if q.maxGW != nil {
		window.MaxGW = *q.maxGW
	}

	entries := difficulty.Aggregate(feed, window)
	axis := seasonAxis.Window(window)
	teamCount := s.cfg.TeamCount
	if teamCount <= 0 {
		teamCount = len(feed)
	}

	rows := make([]TableRow, 0, len(entries))
	for team, entry := range entries {
		rows = append(rows, TableRow{
			Team:             team,
			Total:            q.perspective.Metric().Total(entry),
			TotalOpponentXG:  entry.TotalOpponentXG,
			TotalOpponentXGA: entry.TotalOpponentXGA,
			Fixtures:         entry.Fixtures,
			Cells:            renderCells(entry.Fixtures, axis, q.perspective, teamCount),
		})
	}
	sortRows(rows, entries, q.sortBy, q.order)

	return Table{
		Window:       window,
		Perspective:  q.perspective,
		SortBy:       q.sortBy,
		Order:        q.order,
		AxisStrategy: q.axis,
		Axis:         axis,
		TeamCount:    teamCount,
		Means:        difficulty.CalculateMeans(entries),
		Rows:         rows,
	}, nil
}

func renderCells(fixtures fixture.TeamFixtures, axis difficulty.Axis, perspective difficulty.Perspective, teamCount int) []TableCell {
	resolved := difficulty.ResolveRow(fixtures, axis)
	cells := make([]TableCell, len(resolved))
	for i, cell := range resolved {
		cells[i].Gameweek = cell.Gameweek
		if cell.Fixture == nil {
			continue
		}
		stat := perspective.Stat(*cell.Fixture)
		band := difficulty.Band(perspective.Rank(*cell.Fixture), teamCount)
		cells[i].Fixture = cell.Fixture
		cells[i].Stat = &stat
		cells[i].Band = band
		cells[i].Color = difficulty.BandColor(band)
	}
	return cells
}

func sortRows(rows []TableRow, entries map[string]difficulty.AggregatedTeamEntry, metric difficulty.Metric, order string) {
	sort.SliceStable(rows, func(i, j int) bool {
		left := difficulty.ParseTotal(metric.Total(entries[rows[i].Team]))
		right := difficulty.ParseTotal(metric.Total(entries[rows[j].Team]))
		if left != right {
			if order == OrderAsc {
				return left < right
			}
			return left > right
		}
		return rows[i].Team < rows[j].Team
	})
}

func (s *DifficultyService) normalize(query TableQuery) (normalizedQuery, error) {
	perspective, err := difficulty.ParsePerspective(query.Perspective)
	if err != nil {
		return normalizedQuery{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	sortBy := perspective.Metric()
	switch strings.ToLower(strings.TrimSpace(query.SortBy)) {
	case "":
	case strings.ToLower(string(difficulty.MetricXG)):
		sortBy = difficulty.MetricXG
	case strings.ToLower(string(difficulty.MetricXGA)):
		sortBy = difficulty.MetricXGA
	default:
		return normalizedQuery{}, fmt.Errorf("%w: unknown sort_by %q", ErrInvalidInput, query.SortBy)
	}

	order := strings.ToLower(strings.TrimSpace(query.Order))
	switch order {
	case "":
		order = OrderDesc
	case OrderAsc, OrderDesc:
	default:
		return normalizedQuery{}, fmt.Errorf("%w: unknown order %q", ErrInvalidInput, query.Order)
	}

	axis, err := s.parseAxis(query.Axis)
	if err != nil {
		return normalizedQuery{}, err
	}

	return normalizedQuery{
		minGW:       query.MinGW,
		maxGW:       query.MaxGW,
		perspective: perspective,
		sortBy:      sortBy,
		order:       order,
		axis:        axis,
	}, nil
}

func (s *DifficultyService) parseAxis(raw string) (difficulty.AxisStrategy, error) {
	if strings.TrimSpace(raw) == "" {
		return s.cfg.DefaultAxis, nil
	}
	strategy, err := difficulty.ParseAxisStrategy(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return strategy, nil
}

func (q normalizedQuery) cacheKey() string {
	return fmt.Sprintf("%s%s:%s:%s:%s:%s:%s", tableKeyPrefix,
		boundKey(q.minGW), boundKey(q.maxGW), q.perspective, q.sortBy, q.order, q.axis)
}

func boundKey(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
