package config

// WebConfig holds runtime configuration for the web UI server.
type WebConfig struct {
	Addr               string
	APIBaseURL         string
	SessionSecret      string
	CookieName         string
	CookieSecure       bool
	RateLimitPerMinute int
	LogLevel           string
}

// LoadWebConfig constructs a WebConfig from environment variables.
func LoadWebConfig() WebConfig {
	return WebConfig{
		Addr:               GetString("USERSCOUT_ADDR", ":8080"),
		APIBaseURL:         GetString("USERSCOUT_API_BASE", ""),
		SessionSecret:      GetString("USERSCOUT_SESSION_SECRET", ""),
		CookieName:         GetString("USERSCOUT_COOKIE_NAME", "userscout_session"),
		CookieSecure:       GetBool("USERSCOUT_COOKIE_SECURE", false),
		RateLimitPerMinute: GetInt("USERSCOUT_RATE_LIMIT_PER_MIN", 30),
		LogLevel:           GetString("USERSCOUT_LOG_LEVEL", "info"),
	}
}
