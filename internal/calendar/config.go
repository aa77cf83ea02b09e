package calendar

// Config holds the connection settings of the external calendar.
type Config struct {
	Endpoint   string
	CalendarID string
	TimeoutMs  int
	OAuth      OAuthConfig
}

// OAuthConfig describes the authorization endpoint used to re-grant access.
type OAuthConfig struct {
	ClientID    string
	AuthURL     string
	RedirectURL string
	Scope       string
}

// DefaultConfig returns a Config with sensible defaults.
// The feed is disabled until an endpoint is configured.
func DefaultConfig() Config {
	return Config{
		TimeoutMs: 10000,
		OAuth: OAuthConfig{
			Scope: "ZohoCalendar.event.READ",
		},
	}
}

// Enabled reports whether a calendar endpoint is configured.
func (c Config) Enabled() bool {
	return c.Endpoint != ""
}
