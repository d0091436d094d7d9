package letterboxd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filmItem(slug, alt string) string {
	return fmt.Sprintf(
		`<li class="poster-container"><div data-film-slug="%s"><img alt="%s"/></div></li>`,
		slug, alt,
	)
}

// scrapeServer serves canned watchlist pages keyed by "username/page".
func scrapeServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := usernameOf(r.URL.Path)
		var page int
		if _, err := fmt.Sscanf(r.URL.Path, "/"+username+"/watchlist/page/%d/", &page); err != nil {
			http.NotFound(w, r)
			return
		}
		body, ok := pages[fmt.Sprintf("%s/%d", username, page)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func usernameOf(path string) string {
	// /alice/watchlist/page/1/
	for i := 1; i < len(path); i++ {
		if path[i] == '/' {
			return path[1:i]
		}
	}
	return ""
}

func testClient(baseURL string) *Client {
	return NewClient(baseURL, NewLimiter(0), 20)
}

func TestFetchWatchlistPaginates(t *testing.T) {
	srv := scrapeServer(t, map[string]string{
		"alice/1": "<ul>" + filmItem("heat-1995", "Heat 1995") + filmItem("ronin", "Ronin 1998") + "</ul>",
		"alice/2": "<ul>" + filmItem("thief-1981", "Thief 1981") + "</ul>",
		"alice/3": "<ul></ul>", // empty page ends pagination
		"alice/4": "<ul>" + filmItem("never-fetched", "Never Fetched 2000") + "</ul>",
	})

	entries, err := testClient(srv.URL).FetchWatchlist(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Heat", entries[0].Title)
	assert.Equal(t, "Thief", entries[2].Title)
}

func TestFetchWatchlistStopsOnNotFoundPastFirstPage(t *testing.T) {
	srv := scrapeServer(t, map[string]string{
		"bob/1": "<ul>" + filmItem("heat-1995", "Heat 1995") + "</ul>",
		// page 2 404s: treated as end of pagination
	})

	entries, err := testClient(srv.URL).FetchWatchlist(context.Background(), "bob")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFetchWatchlistFirstPageNotFoundFails(t *testing.T) {
	srv := scrapeServer(t, map[string]string{})

	_, err := testClient(srv.URL).FetchWatchlist(context.Background(), "nosuchuser")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nosuchuser")
}

func TestFetchWatchlistHonorsPageCeiling(t *testing.T) {
	pages := map[string]string{}
	for i := 1; i <= 10; i++ {
		pages[fmt.Sprintf("carol/%d", i)] = "<ul>" + filmItem(fmt.Sprintf("film-%d", i), fmt.Sprintf("Film %d 2000", i)) + "</ul>"
	}
	srv := scrapeServer(t, pages)

	c := testClient(srv.URL)
	c.MaxPages = 3
	entries, err := c.FetchWatchlist(context.Background(), "carol")
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestFetchWatchlistReportsPages(t *testing.T) {
	srv := scrapeServer(t, map[string]string{
		"alice/1": "<ul>" + filmItem("heat-1995", "Heat 1995") + "</ul>",
		"alice/2": "<ul></ul>",
	})

	c := testClient(srv.URL)
	var reported []int
	c.OnPage = func(username string, page, entries int) {
		assert.Equal(t, "alice", username)
		reported = append(reported, entries)
	}

	_, err := c.FetchWatchlist(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, reported)
}

func TestFetchAll(t *testing.T) {
	srv := scrapeServer(t, map[string]string{
		"alice/1": "<ul>" + filmItem("heat-1995", "Heat 1995") + "</ul>",
		"bob/1":   "<ul>" + filmItem("heat-1995", "Heat 1995") + filmItem("ronin", "Ronin 1998") + "</ul>",
	})

	lists, err := testClient(srv.URL).FetchAll(context.Background(), []string{"alice", "bob"})
	require.NoError(t, err)
	require.Len(t, lists, 2)
	// Result order follows username order, not completion order.
	assert.Equal(t, "alice", lists[0].Username)
	assert.Len(t, lists[0].Entries, 1)
	assert.Equal(t, "bob", lists[1].Username)
	assert.Len(t, lists[1].Entries, 2)
}

func TestFetchAllFailsWhenAnyUserFails(t *testing.T) {
	srv := scrapeServer(t, map[string]string{
		"alice/1": "<ul>" + filmItem("heat-1995", "Heat 1995") + "</ul>",
		// bob has no pages at all
	})

	_, err := testClient(srv.URL).FetchAll(context.Background(), []string{"alice", "bob"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bob")
}

func TestLimiterSpacesRequests(t *testing.T) {
	now := time.Unix(0, 0)
	var slept []time.Duration

	l := NewLimiter(100 * time.Millisecond)
	l.now = func() time.Time { return now }
	l.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	require.NoError(t, l.Acquire(context.Background())) // first call: free
	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))

	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, slept)
}

func TestLimiterRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewLimiter(time.Minute)
	assert.Error(t, l.Acquire(ctx))
	assert.Error(t, l.Acquire(ctx))
}
