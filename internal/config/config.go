package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	CORS     CORSConfig
	Rules    RulesConfig
	Analysis AnalysisConfig
	Routing  RoutingConfig
	Metrics  MetricsConfig
	PDF      PDFConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxBodyMB    int64         `mapstructure:"max_body_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RulesConfig points at an optional rule set file. An empty path selects the embedded default.
type RulesConfig struct {
	Path string `mapstructure:"path"`
}

// AnalysisConfig holds pipeline limits and the client tax-id exclusion set.
type AnalysisConfig struct {
	MaxPages     int      `mapstructure:"max_pages"`
	ClientTaxIDs []string `mapstructure:"client_tax_ids"`
	Concurrency  int      `mapstructure:"concurrency"`
}

// RoutingConfig holds the rule-based extractor availability map.
type RoutingConfig struct {
	RuleBased      string `mapstructure:"rule_based"`
	UseProfileHint bool   `mapstructure:"use_profile_hint"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Service   string `mapstructure:"service"`
}

// PDFConfig holds PDF page source settings.
type PDFConfig struct {
	MinBytes int `mapstructure:"min_bytes"`
}

// Load reads configuration from environment variables with the DOCROUTE_ prefix.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DOCROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_body_mb", 25)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("rules.path", "")

	// Analysis defaults
	v.SetDefault("analysis.max_pages", 60)
	v.SetDefault("analysis.client_tax_ids", "0105563022918,0105561071873,0105565027615")
	v.SetDefault("analysis.concurrency", 4)

	// Routing defaults
	v.SetDefault("routing.rule_based", "META,GOOGLE")
	v.SetDefault("routing.use_profile_hint", true)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "docroute")
	v.SetDefault("metrics.service", "docroute-api")

	v.SetDefault("pdf.min_bytes", 100)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "DOCROUTE_SERVER_PORT",
		"server.read_timeout":      "DOCROUTE_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "DOCROUTE_SERVER_WRITE_TIMEOUT",
		"server.environment":       "DOCROUTE_SERVER_ENVIRONMENT",
		"server.max_body_mb":       "DOCROUTE_SERVER_MAX_BODY_MB",
		"log.level":                "DOCROUTE_LOG_LEVEL",
		"log.format":               "DOCROUTE_LOG_FORMAT",
		"cors.allowed_origins":     "DOCROUTE_CORS_ALLOWED_ORIGINS",
		"rules.path":               "DOCROUTE_RULES_PATH",
		"analysis.max_pages":       "DOCROUTE_ANALYSIS_MAX_PAGES",
		"analysis.client_tax_ids":  "DOCROUTE_ANALYSIS_CLIENT_TAX_IDS",
		"analysis.concurrency":     "DOCROUTE_ANALYSIS_CONCURRENCY",
		"routing.rule_based":       "DOCROUTE_ROUTING_RULE_BASED",
		"routing.use_profile_hint": "DOCROUTE_ROUTING_USE_PROFILE_HINT",
		"metrics.enabled":          "DOCROUTE_METRICS_ENABLED",
		"metrics.namespace":        "DOCROUTE_METRICS_NAMESPACE",
		"metrics.service":          "DOCROUTE_METRICS_SERVICE",
		"pdf.min_bytes":            "DOCROUTE_PDF_MIN_BYTES",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set a PORT env var. Use it if DOCROUTE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCROUTE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxBodyMB:    v.GetInt64("server.max_body_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Rules = RulesConfig{
		Path: v.GetString("rules.path"),
	}
	cfg.Analysis = AnalysisConfig{
		MaxPages:     v.GetInt("analysis.max_pages"),
		ClientTaxIDs: splitList(v.GetString("analysis.client_tax_ids")),
		Concurrency:  v.GetInt("analysis.concurrency"),
	}
	cfg.Routing = RoutingConfig{
		RuleBased:      v.GetString("routing.rule_based"),
		UseProfileHint: v.GetBool("routing.use_profile_hint"),
	}
	cfg.Metrics = MetricsConfig{
		Enabled:   v.GetBool("metrics.enabled"),
		Namespace: v.GetString("metrics.namespace"),
		Service:   v.GetString("metrics.service"),
	}
	cfg.PDF = PDFConfig{
		MinBytes: v.GetInt("pdf.min_bytes"),
	}

	return cfg, nil
}

// splitList parses a comma-separated string, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
