package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/difficulty"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/fixture"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/usecase"
)

type difficultyTableRequest struct {
	MinGW       *int   `validate:"omitempty,min=1"`
	MaxGW       *int   `validate:"omitempty,min=1"`
	Perspective string `validate:"omitempty,oneof=attack defence defense"`
	SortBy      string `validate:"omitempty,oneof=xg xga"`
	Order       string `validate:"omitempty,oneof=asc desc"`
	Axis        string `validate:"omitempty,oneof=union reference"`
}

type gameweekAxisRequest struct {
	Axis string `validate:"omitempty,oneof=union reference"`
}

// GetFixtureFeed returns the raw team to fixtures map without the envelope.
func (h *Handler) GetFixtureFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixtureFeed")
	defer span.End()

	feed, err := h.difficultyService.Feed(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixture feed failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	raw, err := fixture.EncodeFeed(feed)
	if err != nil {
		h.logger.ErrorContext(ctx, "encode fixture feed failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (h *Handler) GetDifficultyTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDifficultyTable")
	defer span.End()

	req, err := h.parseTableRequest(ctx, r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	table, err := h.difficultyService.BuildTable(ctx, req.toQuery())
	if err != nil {
		h.logger.WarnContext(ctx, "build difficulty table failed", "query", r.URL.RawQuery, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, difficultyTableToDTO(table))
}

func (h *Handler) GetGameweekAxis(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameweekAxis")
	defer span.End()

	req := gameweekAxisRequest{Axis: normalizeQueryValue(r.URL.Query().Get("axis"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.difficultyService.Axis(ctx, req.Axis)
	if err != nil {
		h.logger.WarnContext(ctx, "get gameweek axis failed", "axis", req.Axis, "error", err)
		writeError(ctx, w, err)
		return
	}

	gameweeks := []int(view.Axis)
	if gameweeks == nil {
		gameweeks = []int{}
	}
	writeSuccess(ctx, w, http.StatusOK, gameweekAxisDTO{
		Strategy:  string(view.Strategy),
		Gameweeks: gameweeks,
		MinGW:     view.MinGW,
		MaxGW:     view.MaxGW,
	})
}

func (h *Handler) parseTableRequest(ctx context.Context, query url.Values) (difficultyTableRequest, error) {
	minGW, err := parseOptionalGameweek(query, "min_gw")
	if err != nil {
		return difficultyTableRequest{}, err
	}
	maxGW, err := parseOptionalGameweek(query, "max_gw")
	if err != nil {
		return difficultyTableRequest{}, err
	}

	req := difficultyTableRequest{
		MinGW:       minGW,
		MaxGW:       maxGW,
		Perspective: normalizeQueryValue(query.Get("perspective")),
		SortBy:      normalizeQueryValue(query.Get("sort_by")),
		Order:       normalizeQueryValue(query.Get("order")),
		Axis:        normalizeQueryValue(query.Get("axis")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return difficultyTableRequest{}, err
	}
	return req, nil
}

func (r difficultyTableRequest) toQuery() usecase.TableQuery {
	return usecase.TableQuery{
		MinGW:       r.MinGW,
		MaxGW:       r.MaxGW,
		Perspective: r.Perspective,
		SortBy:      r.SortBy,
		Order:       r.Order,
		Axis:        r.Axis,
	}
}

func parseOptionalGameweek(query url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return &value, nil
}

func normalizeQueryValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

type difficultyTableDTO struct {
	Window       windowDTO          `json:"window"`
	Perspective  string             `json:"perspective"`
	SortBy       string             `json:"sortBy"`
	Order        string             `json:"order"`
	AxisStrategy string             `json:"axisStrategy"`
	Gameweeks    []int              `json:"gameweeks"`
	TeamCount    int                `json:"teamCount"`
	Means        *meansDTO          `json:"means,omitempty"`
	Rows         []difficultyRowDTO `json:"rows"`
}

type windowDTO struct {
	MinGW int `json:"minGw"`
	MaxGW int `json:"maxGw"`
}

type meansDTO struct {
	XG    string `json:"xG"`
	XGA   string `json:"xGA"`
	Teams int    `json:"teams"`
}

type difficultyRowDTO struct {
	Team             string              `json:"team"`
	Total            string              `json:"total"`
	TotalOpponentXG  string              `json:"totalOpponentXG"`
	TotalOpponentXGA string              `json:"totalOpponentXGA"`
	Fixtures         int                 `json:"fixtures"`
	Cells            []difficultyCellDTO `json:"cells"`
}

type difficultyCellDTO struct {
	Gameweek int         `json:"gameweek"`
	Fixture  *fixtureDTO `json:"fixture,omitempty"`
	Stat     *float64    `json:"stat,omitempty"`
	Band     int         `json:"band"`
	Color    string      `json:"color,omitempty"`
}

type fixtureDTO struct {
	HomeAway      string  `json:"homeAway"`
	Opponent      string  `json:"opponent"`
	OpponentShort string  `json:"opponentShort"`
	XG            float64 `json:"xG"`
	XGA           float64 `json:"xGA"`
	XGRank        int     `json:"xGRank"`
	XGARank       int     `json:"xGARank"`
}

type gameweekAxisDTO struct {
	Strategy  string `json:"strategy"`
	Gameweeks []int  `json:"gameweeks"`
	MinGW     int    `json:"minGw"`
	MaxGW     int    `json:"maxGw"`
}

func difficultyTableToDTO(table usecase.Table) difficultyTableDTO {
	gameweeks := []int(table.Axis)
	if gameweeks == nil {
		gameweeks = []int{}
	}

	out := difficultyTableDTO{
		Window:       windowDTO{MinGW: table.Window.MinGW, MaxGW: table.Window.MaxGW},
		Perspective:  string(table.Perspective),
		SortBy:       string(table.SortBy),
		Order:        table.Order,
		AxisStrategy: string(table.AxisStrategy),
		Gameweeks:    gameweeks,
		TeamCount:    table.TeamCount,
		Rows:         make([]difficultyRowDTO, 0, len(table.Rows)),
	}
	if table.Means.Valid() {
		out.Means = &meansDTO{
			XG:    difficulty.FormatTotal(table.Means.XG),
			XGA:   difficulty.FormatTotal(table.Means.XGA),
			Teams: table.Means.Teams,
		}
	}

	for _, row := range table.Rows {
		cells := make([]difficultyCellDTO, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, difficultyCellDTO{
				Gameweek: cell.Gameweek,
				Fixture:  fixtureToDTO(cell.Fixture),
				Stat:     cell.Stat,
				Band:     cell.Band,
				Color:    cell.Color,
			})
		}
		out.Rows = append(out.Rows, difficultyRowDTO{
			Team:             row.Team,
			Total:            row.Total,
			TotalOpponentXG:  row.TotalOpponentXG,
			TotalOpponentXGA: row.TotalOpponentXGA,
			Fixtures:         len(row.Fixtures),
			Cells:            cells,
		})
	}
	return out
}

func fixtureToDTO(f *fixture.Fixture) *fixtureDTO {
	if f == nil {
		return nil
	}
	return &fixtureDTO{
		HomeAway:      f.HomeAway,
		Opponent:      f.Opponent,
		OpponentShort: f.OpponentShort,
		XG:            f.XG,
		XGA:           f.XGA,
		XGRank:        f.XGRank,
		XGARank:       f.XGARank,
	}
}
