package msgraph_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/daylog/internal/msgraph"
)

func TestGetCalendarView_FollowsNextLink(t *testing.T) {
	var srv *httptest.Server
	calls := 0
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("page") == "2" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"value": []map[string]any{{"id": "b", "subject": "Second"}},
			})
			return
		}
		assert.Equal(t, "/me/calendarView", r.URL.Path)
		assert.Equal(t, `outlook.timezone="Asia/Shanghai"`, r.Header.Get("Prefer"))
		assert.NotEmpty(t, r.URL.Query().Get("startDateTime"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"value":           []map[string]any{{"id": "a", "subject": "First"}},
			"@odata.nextLink": srv.URL + "/me/calendarView?page=2",
		})
	}))
	defer srv.Close()

	c := msgraph.NewClientWithHTTP(srv.URL, srv.Client())
	from := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	events, err := c.GetCalendarView(context.Background(), from, from.Add(24*time.Hour), "Asia/Shanghai")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "First", events[0].Subject)
	assert.Equal(t, "Second", events[1].Subject)
	assert.Equal(t, 2, calls)
}

func TestGetCalendarView_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	c := msgraph.NewClientWithHTTP(srv.URL, srv.Client())
	_, err := c.GetCalendarView(context.Background(), time.Now(), time.Now(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
