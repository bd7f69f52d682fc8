// Package config loads the Mycelium gateway's configuration document
// from environment variables, generalizing the teacher's single flat
// os.Getenv Config into the API/Core/Auth/SMTP sections spec.md's
// configuration surface names.
package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/gateway/callback"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/gateway/routing"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/notify"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/storage"
	"github.com/google/uuid"
)

type Config struct {
	API         APIConfig
	Core        CoreConfig
	Auth        AuthConfig
	SMTP        notify.SMTPConfig
	DatabaseURL string
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type APIConfig struct {
	ServiceIP             string
	ServicePort           int
	AllowedOrigins        []string
	GatewayTimeoutSeconds int
	TLS                   *TLSConfig
	Routes                []routing.Route
	Callbacks             []callback.Callback
}

type CoreConfig struct {
	ServiceIP       string
	ServicePort     int
	AllowedOrigins  []string
	TokenExpiration time.Duration
	TokenSecret     uuid.UUID
	MasterSecret    uuid.UUID
	TOTPIssuer      string
	DomainName      string
	SupportEmail    string
	RateLimitRPS    float64
	RateLimitBurst  int
}

// InternalAuthConfig enables Mycelium's own email/password + TOTP
// authentication path.
type InternalAuthConfig struct {
	Enabled bool
}

// GoogleAuthConfig enables Google OAuth2 as an alternative identity
// provider; both may be configured simultaneously.
type GoogleAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type AuthConfig struct {
	Internal *InternalAuthConfig
	Google   *GoogleAuthConfig
}

// Load reads the full configuration document from environment
// variables. Every field has a development-safe default so the gateway
// can start without a populated environment, matching the teacher's
// own "warn and fall back" pattern for DATABASE_URL/JWT_PRIVATE_KEY.
func Load() Config {
	return Config{
		API:         loadAPIConfig(),
		Core:        loadCoreConfig(),
		Auth:        loadAuthConfig(),
		SMTP:        loadSMTPConfig(),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}

func loadAPIConfig() APIConfig {
	cfg := APIConfig{
		ServiceIP:             getEnv("API_SERVICE_IP", "0.0.0.0"),
		ServicePort:           getEnvAsInt("API_SERVICE_PORT", 8080),
		AllowedOrigins:        parseOrigins(os.Getenv("API_ALLOWED_ORIGINS")),
		GatewayTimeoutSeconds: getEnvAsInt("API_GATEWAY_TIMEOUT_SECONDS", 30),
		Routes:                parseRoutesFile(os.Getenv("MYCELIUM_ROUTES_FILE")),
		Callbacks:             parseCallbacksFile(os.Getenv("MYCELIUM_CALLBACKS_FILE")),
	}
	if certFile := os.Getenv("API_TLS_CERT_FILE"); certFile != "" {
		cfg.TLS = &TLSConfig{CertFile: certFile, KeyFile: os.Getenv("API_TLS_KEY_FILE")}
	}
	return cfg
}

func loadCoreConfig() CoreConfig {
	secret, err := uuid.Parse(os.Getenv("CORE_TOKEN_SECRET"))
	if err != nil {
		secret = uuid.New()
	}
	masterSecret, err := uuid.Parse(os.Getenv("CORE_TOTP_MASTER_SECRET"))
	if err != nil {
		masterSecret = uuid.New()
	}
	return CoreConfig{
		ServiceIP:       getEnv("CORE_SERVICE_IP", "0.0.0.0"),
		ServicePort:     getEnvAsInt("CORE_SERVICE_PORT", 8081),
		AllowedOrigins:  parseOrigins(os.Getenv("CORE_ALLOWED_ORIGINS")),
		TokenExpiration: parseDuration(os.Getenv("CORE_TOKEN_EXPIRATION"), time.Hour),
		TokenSecret:     secret,
		MasterSecret:    masterSecret,
		TOTPIssuer:      getEnv("CORE_TOTP_ISSUER", "Mycelium"),
		DomainName:      getEnv("CORE_DOMAIN_NAME", "mycelium.local"),
		SupportEmail:    getEnv("CORE_SUPPORT_EMAIL", "support@mycelium.local"),
		RateLimitRPS:    getEnvAsFloat("CORE_RATE_LIMIT_RPS", 20),
		RateLimitBurst:  getEnvAsInt("CORE_RATE_LIMIT_BURST", 40),
	}
}

func loadAuthConfig() AuthConfig {
	cfg := AuthConfig{}
	if getEnvAsBool("AUTH_INTERNAL_ENABLED", true) {
		cfg.Internal = &InternalAuthConfig{Enabled: true}
	}
	if clientID := os.Getenv("AUTH_GOOGLE_CLIENT_ID"); clientID != "" {
		cfg.Google = &GoogleAuthConfig{
			ClientID:     clientID,
			ClientSecret: os.Getenv("AUTH_GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("AUTH_GOOGLE_REDIRECT_URL"),
		}
	}
	return cfg
}

func loadSMTPConfig() notify.SMTPConfig {
	return notify.SMTPConfig{
		Host:          os.Getenv("SMTP_HOST"),
		Port:          getEnvAsInt("SMTP_PORT", 587),
		User:          os.Getenv("SMTP_USER"),
		PassEncrypted: os.Getenv("SMTP_PASS_ENCRYPTED"),
		From:          getEnv("SMTP_FROM", "no-reply@mycelium.local"),
		TLSMode:       getEnv("SMTP_TLS_MODE", "starttls"),
		KeyVersion:    getEnvAsInt("SMTP_KEY_VERSION", 1),
	}
}

// parseRoutesFile loads the gateway's route table from a JSON document,
// generalizing the teacher's flat env-var config into the structured
// document spec.md's route table requires. An empty/missing path yields
// no routes rather than failing startup, so the gateway can still serve
// health checks.
func parseRoutesFile(path string) []routing.Route {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var routes []routing.Route
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil
	}
	return routes
}

// parseCallbacksFile loads the webhook targets notified after each
// proxied request completes (internal/gateway/callback's C9 pipeline).
// An empty/missing path yields no callbacks, matching parseRoutesFile's
// "don't fail startup" behavior.
func parseCallbacksFile(path string) []callback.Callback {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var callbacks []callback.Callback
	if err := json.Unmarshal(data, &callbacks); err != nil {
		return nil
	}
	return callbacks
}

// parseOrigins splits the comma-separated env value and drops any origin
// storage.ValidateCORSOrigins rejects (wildcard, non-HTTPS) rather than
// letting a misconfigured env var widen the CORS allow-list silently.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		if err := storage.ValidateCORSOrigins([]string{trimmed}); err != nil {
			slog.Warn("dropping insecure CORS origin from config", "origin", trimmed, "error", err)
			continue
		}
		origins = append(origins, trimmed)
	}
	return origins
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getEnvAsFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvAsBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
