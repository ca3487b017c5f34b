package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerFeedRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/fixtures", handler.GetFixtureFeed)
}

func registerDifficultyRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/fixture-difficulty", handler.GetDifficultyTable)
	mux.HandleFunc("GET /v1/fixture-difficulty/gameweeks", handler.GetGameweekAxis)
	mux.HandleFunc("GET /v1/fixture-difficulty/chart", handler.GetDifficultyChart)
}
