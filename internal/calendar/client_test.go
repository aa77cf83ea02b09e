package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTokens struct {
	token string
	err   error
}

func (m *memTokens) Token() (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.token == "" {
		return "", ErrNoToken
	}
	return m.token, nil
}
func (m *memTokens) SetToken(t string) error { m.token = t; return nil }
func (m *memTokens) DeleteToken() error      { m.token = ""; return nil }

func testConfig(endpoint string) Config {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.CalendarID = "cal-1"
	cfg.OAuth.AuthURL = "https://accounts.example.com/oauth/v2/auth"
	cfg.OAuth.ClientID = "client-42"
	return cfg
}

var day = time.Date(2026, 10, 20, 15, 30, 0, 0, time.UTC)

func TestHTTPFeed_ListEvents_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "cal-1", r.URL.Query().Get("calendar_uid"))
		assert.Equal(t, "2026-10-20", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2026-10-20", r.URL.Query().Get("end_date"))

		yes := true
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]wireEvent{
			{CalUID: "A", Title: " Boiler check ", Color: "#4CAF50", TimeSlot: "pm", Material: &yes},
			{CalUID: "", Title: "ignored"},
			{CalUID: "B", Description: "Pump replacement"},
		})
	}))
	defer srv.Close()

	feed := NewHTTPFeed(testConfig(srv.URL), &memTokens{token: "tok"}, NoopObserver{})
	events, err := feed.ListEvents(context.Background(), day)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "A", events[0].ExternalID)
	assert.Equal(t, "Boiler check", events[0].Title)
	assert.Equal(t, domain.SlotPM, events[0].TimeSlot)
	require.NotNil(t, events[0].MaterialAvailable)
	assert.True(t, *events[0].MaterialAvailable)
	assert.Equal(t, "B", events[1].ExternalID)
	assert.Equal(t, domain.SlotUnset, events[1].TimeSlot)
	assert.Nil(t, events[1].MaterialAvailable)
}

func TestHTTPFeed_ListEvents_EmptyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	feed := NewHTTPFeed(testConfig(srv.URL), &memTokens{token: "tok"}, nil)
	events, err := feed.ListEvents(context.Background(), day)

	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestHTTPFeed_ListEvents_Unauthorized(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		feed := NewHTTPFeed(testConfig(srv.URL), &memTokens{token: "expired"}, nil)
		_, err := feed.ListEvents(context.Background(), day)
		srv.Close()

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnauthorized)
		var ue *UnauthorizedError
		require.True(t, errors.As(err, &ue))
		assert.Contains(t, ue.AuthURL, "client_id=client-42")
	}
}

func TestHTTPFeed_ListEvents_NoTokenIsUnauthorized(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	feed := NewHTTPFeed(testConfig(srv.URL), &memTokens{}, nil)
	_, err := feed.ListEvents(context.Background(), day)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, called, "no request is issued without a token")
}

func TestHTTPFeed_ListEvents_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	feed := NewHTTPFeed(testConfig(srv.URL), &memTokens{token: "tok"}, nil)
	_, err := feed.ListEvents(context.Background(), day)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "500")
}

func TestHTTPFeed_ListEvents_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.TimeoutMs = 50
	feed := NewHTTPFeed(cfg, &memTokens{token: "tok"}, nil)
	_, err := feed.ListEvents(context.Background(), day)

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestHTTPFeed_ListEvents_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	feed := NewHTTPFeed(testConfig(url), &memTokens{token: "tok"}, nil)
	_, err := feed.ListEvents(context.Background(), day)

	assert.ErrorIs(t, err, ErrUnavailable)
}

type recordingObserver struct {
	events []FetchEvent
}

func (r *recordingObserver) OnFetchComplete(_ context.Context, e FetchEvent) {
	r.events = append(r.events, e)
}

func TestHTTPFeed_ReportsFetchToObserver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	feed := NewHTTPFeed(testConfig(srv.URL), &memTokens{token: "tok"}, obs)
	_, _ = feed.ListEvents(context.Background(), day)

	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, "UNAUTHORIZED", obs.events[0].ErrorCode)
	assert.Equal(t, "2026-10-20", obs.events[0].Day)
}

func TestStaticFeed(t *testing.T) {
	feed := NewStaticFeed()
	feed.Set(day, domain.CalendarEvent{ExternalID: "A"})

	events, err := feed.ListEvents(context.Background(), day.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, err = feed.ListEvents(context.Background(), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, events)

	feed.SetErr(ErrUnauthorized)
	_, err = feed.ListEvents(context.Background(), day)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 3, feed.Calls())
}
