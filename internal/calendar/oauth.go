package calendar

import (
	"net/url"
	"strings"
)

// AuthorizationURL builds the URL that starts the OAuth consent flow.
// It returns "" when no authorization endpoint is configured.
func (c OAuthConfig) AuthorizationURL(state string) string {
	if c.AuthURL == "" {
		return ""
	}
	u, err := url.Parse(c.AuthURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("access_type", "offline")
	if c.ClientID != "" {
		q.Set("client_id", c.ClientID)
	}
	if c.RedirectURL != "" {
		q.Set("redirect_uri", c.RedirectURL)
	}
	if scope := strings.TrimSpace(c.Scope); scope != "" {
		q.Set("scope", scope)
	}
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
