package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/difficulty"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/usecase"
)

// GetDifficultyChart renders the per-team totals of a difficulty table as an HTML bar chart.
func (h *Handler) GetDifficultyChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDifficultyChart")
	defer span.End()

	req, err := h.parseTableRequest(ctx, r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	table, err := h.difficultyService.BuildTable(ctx, req.toQuery())
	if err != nil {
		h.logger.WarnContext(ctx, "build difficulty chart failed", "query", r.URL.RawQuery, "error", err)
		writeError(ctx, w, err)
		return
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := renderDifficultyChart(ctx, table, buf); err != nil {
		h.logger.ErrorContext(ctx, "render difficulty chart failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.B)
}

func renderDifficultyChart(ctx context.Context, table usecase.Table, buf *bytebufferpool.ByteBuffer) error {
	_, span := startSpan(ctx, "httpapi.renderDifficultyChart")
	defer span.End()

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Fixture difficulty",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Opponent %s, %s", table.SortBy, table.Perspective),
			Subtitle: fmt.Sprintf("GW%d-GW%d", table.Window.MinGW, table.Window.MaxGW),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	)

	teams := make([]string, len(table.Rows))
	xgData := make([]opts.BarData, len(table.Rows))
	xgaData := make([]opts.BarData, len(table.Rows))
	for i, row := range table.Rows {
		teams[i] = row.Team
		xgData[i] = opts.BarData{Value: difficulty.ParseTotal(row.TotalOpponentXG)}
		xgaData[i] = opts.BarData{Value: difficulty.ParseTotal(row.TotalOpponentXGA)}
	}

	bar.SetXAxis(teams).
		AddSeries("Opponent xG", xgData).
		AddSeries("Opponent xGA", xgaData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	if err := bar.Render(buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
