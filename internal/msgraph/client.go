package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the Microsoft Graph v1.0 endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// eventFields limits calendarView responses to what the import uses.
const eventFields = "id,subject,isAllDay,isCancelled,sensitivity,showAs,start,end"

// Client is an authenticated Microsoft Graph API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Graph client that refreshes tok as needed and writes
// refreshed tokens back to the cache.
func NewClient(ctx context.Context, auth Auth, tok *oauth2.Token) *Client {
	ts := auth.oauth2Config().TokenSource(ctx, tok)
	return &Client{
		baseURL:    DefaultBaseURL,
		httpClient: oauth2.NewClient(ctx, &savingTokenSource{auth: auth, ts: ts}),
	}
}

// NewClientWithHTTP creates a client against baseURL using httpClient as is.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// CalendarEvent represents a Microsoft Graph calendar event.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	IsAllDay    bool      `json:"isAllDay"`
	IsCancelled bool      `json:"isCancelled"`
	Sensitivity string    `json:"sensitivity"` // "normal", "personal", "private", "confidential"
	ShowAs      string    `json:"showAs"`      // "free", "tentative", "busy", "oof", "workingElsewhere", "unknown"
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
}

// EventTime is a Graph dateTimeTimeZone value.
type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// calendarViewResponse is the Graph API paged response for calendar events.
type calendarViewResponse struct {
	Value    []CalendarEvent `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

// GetCalendarView fetches calendar events in [from, to) using the calendarView endpoint.
// timezone is an IANA timezone name (e.g. "Asia/Shanghai"); pass "" for UTC.
func (c *Client) GetCalendarView(ctx context.Context, from, to time.Time, timezone string) ([]CalendarEvent, error) {
	q := url.Values{}
	q.Set("startDateTime", from.UTC().Format(time.RFC3339))
	q.Set("endDateTime", to.UTC().Format(time.RFC3339))
	q.Set("$top", "100")
	q.Set("$select", eventFields)
	endpoint := c.baseURL + "/me/calendarView?" + q.Encode()

	var all []CalendarEvent
	for page := 1; endpoint != ""; page++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if timezone != "" {
			req.Header.Set("Prefer", fmt.Sprintf(`outlook.timezone="%s"`, timezone))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("graph API request failed: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("graph API error %d: %s", resp.StatusCode, string(body))
		}

		var cv calendarViewResponse
		if err := json.Unmarshal(body, &cv); err != nil {
			return nil, fmt.Errorf("decoding graph response: %w", err)
		}
		log.Debug().Int("page", page).Int("events", len(cv.Value)).Msg("calendar page fetched")

		all = append(all, cv.Value...)
		endpoint = cv.NextLink
	}
	return all, nil
}
