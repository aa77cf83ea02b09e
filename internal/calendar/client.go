package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/fieldplan/internal/domain"
)

// httpFeed implements Feed against the calendar service's JSON API.
type httpFeed struct {
	cfg      Config
	tokens   TokenStore
	http     *http.Client
	observer Observer
}

// NewHTTPFeed creates a Feed that fetches events over HTTP with a bearer
// token read from tokens on every call.
func NewHTTPFeed(cfg Config, tokens TokenStore, observer Observer) Feed {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpFeed{
		cfg:    cfg,
		tokens: tokens,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// wireEvent is one element of the JSON array returned by GET /events.
type wireEvent struct {
	CalUID      string `json:"caluid"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	TimeSlot    string `json:"time_slot,omitempty"`
	Material    *bool  `json:"material_available,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

func (f *httpFeed) ListEvents(ctx context.Context, day time.Time) ([]domain.CalendarEvent, error) {
	start := time.Now()
	key := domain.NormalizeDay(day).Format(domain.DayLayout)

	timeout := f.cfg.TimeoutMs
	if timeout <= 0 {
		timeout = DefaultConfig().TimeoutMs
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Millisecond)
	defer cancel()

	events, err := f.fetch(ctx, key)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ErrUnauthorized) {
		err = ErrTimeout
	} else if err != nil && isConnectionError(err) {
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	f.observer.OnFetchComplete(ctx, FetchEvent{
		Day:       key,
		Events:    len(events),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (f *httpFeed) fetch(ctx context.Context, day string) ([]domain.CalendarEvent, error) {
	token, err := f.tokens.Token()
	if errors.Is(err, ErrNoToken) {
		return nil, f.unauthorized()
	}
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("calendar_uid", f.cfg.CalendarID)
	q.Set("start_date", day)
	q.Set("end_date", day)
	endpoint := strings.TrimRight(f.cfg.Endpoint, "/") + "/events?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, f.unauthorized()
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("calendar returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var wire []wireEvent
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decoding calendar events: %w", err)
	}

	out := make([]domain.CalendarEvent, 0, len(wire))
	for _, w := range wire {
		if w.CalUID == "" {
			continue
		}
		slot, _ := domain.ParseTimeSlot(w.TimeSlot)
		out = append(out, domain.CalendarEvent{
			ExternalID:        w.CalUID,
			Title:             strings.TrimSpace(w.Title),
			Description:       strings.TrimSpace(w.Description),
			Color:             w.Color,
			TimeSlot:          slot,
			MaterialAvailable: w.Material,
			Notes:             w.Notes,
		})
	}
	return out, nil
}

func (f *httpFeed) unauthorized() error {
	return &UnauthorizedError{AuthURL: f.cfg.OAuth.AuthorizationURL("")}
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}
