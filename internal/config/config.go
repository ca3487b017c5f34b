package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/logging"
)

const (
	FeedSourceUnderstat = "understat"
	FeedSourceFile      = "file"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                         string
	ServiceName                    string
	ServiceVersion                 string
	HTTPAddr                       string
	ReadTimeout                    time.Duration
	WriteTimeout                   time.Duration
	CORSAllowedOrigins             []string
	SwaggerEnabled                 bool
	CacheEnabled                   bool
	CacheTTL                       time.Duration
	PprofEnabled                   bool
	PprofAddr                      string
	UptraceEnabled                 bool
	UptraceDSN                     string
	UptraceLogsEnabled             bool
	PyroscopeEnabled               bool
	PyroscopeServerAddress         string
	PyroscopeAppName               string
	PyroscopeAuthToken             string
	PyroscopeBasicAuthUser         string
	PyroscopeBasicAuthPassword     string
	PyroscopeUploadRate            time.Duration
	FeedSource                     string
	FeedFile                       string
	UnderstatBaseURL               string
	UnderstatLeague                string
	UnderstatSeason                int
	UnderstatTimeout               time.Duration
	UnderstatMaxRetries            int
	UnderstatRateLimit             time.Duration
	UnderstatCircuitEnabled        bool
	UnderstatCircuitFailureCount   int
	UnderstatCircuitOpenTimeout    time.Duration
	UnderstatCircuitHalfOpenMaxReq int
	GameweekCalendarFile           string
	LeagueTeamCount                int
	AxisStrategy                   string
	PrewarmHorizons                []int
	PrewarmWorkers                 int
	LogLevel                       logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	feedSource, err := parseFeedSource(getEnv("FEED_SOURCE", FeedSourceUnderstat))
	if err != nil {
		return Config{}, err
	}
	feedFile := strings.TrimSpace(getEnv("FEED_FILE", ""))
	if feedSource == FeedSourceFile && feedFile == "" {
		return Config{}, fmt.Errorf("FEED_FILE is required when FEED_SOURCE=%s", FeedSourceFile)
	}

	understatSeason, err := getEnvAsInt("UNDERSTAT_SEASON", 2024)
	if err != nil {
		return Config{}, fmt.Errorf("parse UNDERSTAT_SEASON: %w", err)
	}
	if understatSeason < 2014 {
		return Config{}, fmt.Errorf("UNDERSTAT_SEASON must be >= 2014")
	}
	understatTimeout, err := time.ParseDuration(getEnv("UNDERSTAT_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UNDERSTAT_TIMEOUT: %w", err)
	}
	if understatTimeout <= 0 {
		return Config{}, fmt.Errorf("UNDERSTAT_TIMEOUT must be > 0")
	}
	understatMaxRetries, err := getEnvAsInt("UNDERSTAT_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse UNDERSTAT_MAX_RETRIES: %w", err)
	}
	if understatMaxRetries < 0 {
		return Config{}, fmt.Errorf("UNDERSTAT_MAX_RETRIES must be >= 0")
	}
	understatRateLimit, err := time.ParseDuration(getEnv("UNDERSTAT_RATE_LIMIT", "500ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UNDERSTAT_RATE_LIMIT: %w", err)
	}
	if understatRateLimit < 0 {
		return Config{}, fmt.Errorf("UNDERSTAT_RATE_LIMIT must be >= 0")
	}
	understatCircuitEnabled, err := strconv.ParseBool(getEnv("UNDERSTAT_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UNDERSTAT_CIRCUIT_ENABLED: %w", err)
	}
	understatCircuitFailureCount, err := getEnvAsInt("UNDERSTAT_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse UNDERSTAT_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if understatCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("UNDERSTAT_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	understatCircuitOpenTimeout, err := time.ParseDuration(getEnv("UNDERSTAT_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UNDERSTAT_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if understatCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("UNDERSTAT_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	understatCircuitHalfOpenMaxReq, err := getEnvAsInt("UNDERSTAT_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse UNDERSTAT_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if understatCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("UNDERSTAT_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	leagueTeamCount, err := getEnvAsInt("LEAGUE_TEAM_COUNT", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_TEAM_COUNT: %w", err)
	}
	if leagueTeamCount < 0 {
		return Config{}, fmt.Errorf("LEAGUE_TEAM_COUNT must be >= 0")
	}

	axisStrategy, err := parseAxisStrategy(getEnv("AXIS_STRATEGY", "union"))
	if err != nil {
		return Config{}, err
	}

	prewarmHorizons, err := parseIntList(getEnv("PREWARM_HORIZONS", "1,3,5,8"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PREWARM_HORIZONS: %w", err)
	}
	prewarmWorkers, err := getEnvAsInt("PREWARM_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse PREWARM_WORKERS: %w", err)
	}
	if prewarmWorkers < 1 {
		return Config{}, fmt.Errorf("PREWARM_WORKERS must be >= 1")
	}

	cfg := Config{
		AppEnv:                         appEnv,
		ServiceName:                    getEnv("APP_SERVICE_NAME", "fpl-fixture-difficulty"),
		ServiceVersion:                 getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                    readTimeout,
		WriteTimeout:                   writeTimeout,
		CORSAllowedOrigins:             splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:                 swaggerEnabled,
		CacheEnabled:                   cacheEnabled,
		CacheTTL:                       cacheTTL,
		PprofEnabled:                   pprofEnabled,
		PprofAddr:                      pprofAddr,
		UptraceEnabled:                 uptraceEnabled,
		UptraceDSN:                     uptraceDSN,
		UptraceLogsEnabled:             uptraceLogsEnabled,
		PyroscopeEnabled:               pyroscopeEnabled,
		PyroscopeServerAddress:         pyroscopeServerAddress,
		PyroscopeAuthToken:             strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:         strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:            pyroscopeUploadRate,
		FeedSource:                     feedSource,
		FeedFile:                       feedFile,
		UnderstatBaseURL:               strings.TrimSpace(getEnv("UNDERSTAT_BASE_URL", "https://understat.com")),
		UnderstatLeague:                strings.TrimSpace(getEnv("UNDERSTAT_LEAGUE", "EPL")),
		UnderstatSeason:                understatSeason,
		UnderstatTimeout:               understatTimeout,
		UnderstatMaxRetries:            understatMaxRetries,
		UnderstatRateLimit:             understatRateLimit,
		UnderstatCircuitEnabled:        understatCircuitEnabled,
		UnderstatCircuitFailureCount:   understatCircuitFailureCount,
		UnderstatCircuitOpenTimeout:    understatCircuitOpenTimeout,
		UnderstatCircuitHalfOpenMaxReq: understatCircuitHalfOpenMaxReq,
		GameweekCalendarFile:           strings.TrimSpace(getEnv("GAMEWEEK_CALENDAR_FILE", "")),
		LeagueTeamCount:                leagueTeamCount,
		AxisStrategy:                   axisStrategy,
		PrewarmHorizons:                prewarmHorizons,
		PrewarmWorkers:                 prewarmWorkers,
		LogLevel:                       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.UnderstatLeague == "" {
		return Config{}, fmt.Errorf("UNDERSTAT_LEAGUE cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseIntList(raw string) ([]int, error) {
	items := splitCSV(raw)
	out := make([]int, 0, len(items))
	for _, item := range items {
		value, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", item, err)
		}
		if value < 1 {
			return nil, fmt.Errorf("value must be >= 1, got %d", value)
		}
		out = append(out, value)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseFeedSource(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case FeedSourceUnderstat, FeedSourceFile:
		return value, nil
	default:
		return "", fmt.Errorf("invalid FEED_SOURCE %q: valid values are %s, %s", v, FeedSourceUnderstat, FeedSourceFile)
	}
}

func parseAxisStrategy(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case "union", "reference":
		return value, nil
	default:
		return "", fmt.Errorf("invalid AXIS_STRATEGY %q: valid values are union, reference", v)
	}
}
