package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/fixture"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/logging"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/usecase"
)

// DifficultyService is the read side the handlers depend on.
type DifficultyService interface {
	Feed(ctx context.Context) (fixture.LeagueFixtures, error)
	Axis(ctx context.Context, strategy string) (usecase.AxisView, error)
	BuildTable(ctx context.Context, query usecase.TableQuery) (usecase.Table, error)
}

type Handler struct {
	difficultyService DifficultyService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(difficultyService DifficultyService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		difficultyService: difficultyService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
