// Package letterboxd scrapes user watchlists from Letterboxd HTML pages.
// There is no public API, so this is plain paginated GETs plus regex
// extraction, throttled by a shared rate limiter.
package letterboxd

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"watchmatch/pkg/models"
)

const defaultUserAgent = "watchmatch/1.0 (+https://github.com/watchmatch)"

// staggerStep is the extra start delay applied per user index when several
// users are scraped at once, so the first requests don't land together.
const staggerStep = 250 * time.Millisecond

type Client struct {
	BaseURL   string
	HTTP      *http.Client
	Limiter   *Limiter
	MaxPages  int // pagination safety ceiling
	UserAgent string

	// OnPage, when set, is called after each fetched page with the number
	// of entries extracted from it. Used for progress reporting.
	OnPage func(username string, page, entries int)
}

func NewClient(baseURL string, limiter *Limiter, maxPages int) *Client {
	return &Client{
		BaseURL:   baseURL,
		HTTP:      &http.Client{Timeout: 12 * time.Second},
		Limiter:   limiter,
		MaxPages:  maxPages,
		UserAgent: defaultUserAgent,
	}
}

// FetchWatchlist scrapes one user's full watchlist. Pages are fetched
// sequentially because pagination end is detected from page content: a page
// with zero entries, or a non-OK status past page 1, ends the list. A
// non-OK status on page 1 is a hard failure for the user (an unknown user
// must not be mistaken for an empty watchlist).
func (c *Client) FetchWatchlist(ctx context.Context, username string) ([]models.RawEntry, error) {
	var all []models.RawEntry

	for page := 1; page <= c.MaxPages; page++ {
		html, status, err := c.fetchPage(ctx, username, page)
		if err != nil {
			return nil, fmt.Errorf("watchlist %s page %d: %w", username, page, err)
		}
		if status != http.StatusOK {
			if page == 1 {
				return nil, fmt.Errorf("watchlist %s: status %d on first page", username, status)
			}
			break
		}

		entries := ExtractEntries(html)
		if c.OnPage != nil {
			c.OnPage(username, page, len(entries))
		}
		if len(entries) == 0 {
			break
		}
		all = append(all, entries...)
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, username string, page int) (string, int, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Acquire(ctx); err != nil {
			return "", 0, err
		}
	}

	url := fmt.Sprintf("%s/%s/watchlist/page/%d/", c.BaseURL, username, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("read body: %w", err)
	}
	return string(body), resp.StatusCode, nil
}

// FetchAll scrapes every username concurrently, with a staggered start per
// user. The first scrape error cancels the rest and fails the whole call:
// substituting an empty list for a failed user would corrupt intersection
// counts downstream. Results keep the order of usernames.
func (c *Client) FetchAll(ctx context.Context, usernames []string) ([]models.Watchlist, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lists := make([]models.Watchlist, len(usernames))
	errCh := make(chan error, len(usernames))
	var wg sync.WaitGroup

	for i, username := range usernames {
		wg.Add(1)
		go func(i int, username string) {
			defer wg.Done()

			if delay := time.Duration(i) * staggerStep; delay > 0 {
				if err := sleepCtx(ctx, delay); err != nil {
					errCh <- err
					return
				}
			}

			entries, err := c.FetchWatchlist(ctx, username)
			if err != nil {
				errCh <- err
				cancel()
				return
			}
			log.Printf("[scrape] %s: %d entries", username, len(entries))
			lists[i] = models.Watchlist{Username: username, Entries: entries}
		}(i, username)
	}

	wg.Wait()

	select {
	case err := <-errCh:
		return nil, err
	default:
	}
	return lists, nil
}
