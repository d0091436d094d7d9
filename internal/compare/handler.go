package compare

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"watchmatch/internal/progress"
	"watchmatch/pkg/models"
)

// maxUsernames caps how many users one comparison considers; extras are
// silently dropped.
const maxUsernames = 10

// WatchlistFetcher scrapes watchlists for a set of usernames.
type WatchlistFetcher interface {
	FetchAll(ctx context.Context, usernames []string) ([]models.Watchlist, error)
}

// Enricher resolves common-movie candidates against the catalog.
type Enricher interface {
	Enrich(ctx context.Context, requestID string, candidates []models.CommonMovie) []models.EnrichedMovie
}

type Handler struct {
	Fetcher  WatchlistFetcher
	Enricher Enricher
	Hub      *progress.Hub
	Timeout  time.Duration // scrape-phase deadline
}

func NewHandler(fetcher WatchlistFetcher, enricher Enricher, hub *progress.Hub, timeout time.Duration) *Handler {
	return &Handler{Fetcher: fetcher, Enricher: enricher, Hub: hub, Timeout: timeout}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.compare) // POST /compare
}

type compareRequest struct {
	Username string   `json:"username"`
	Friends  []string `json:"friends"`
	// legacy shape
	Usernames []string `json:"usernames"`
}

type watchlistSize struct {
	Username string `json:"username"`
	Size     int    `json:"size"`
}

func (h *Handler) compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	usernames := collectUsernames(req)
	if len(usernames) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least 2 usernames are required"})
		return
	}

	requestID := uuid.NewString()
	log.Printf("[compare] %s: comparing %v", requestID, usernames)
	h.broadcast(progress.Event{Type: progress.EventStarted, RequestID: requestID, Usernames: usernames})

	// The scrape phase as a whole races the timeout. A timed-out scrape
	// fails the request outright; partial per-user results would corrupt
	// the intersection counts.
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	watchlists, err := h.Fetcher.FetchAll(ctx, usernames)
	cancel()
	if err != nil {
		h.broadcast(progress.Event{Type: progress.EventFailed, RequestID: requestID, Message: err.Error()})
		if errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "scraping timed out"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sizes := make([]watchlistSize, 0, len(watchlists))
	for _, wl := range watchlists {
		sizes = append(sizes, watchlistSize{Username: wl.Username, Size: len(wl.Entries)})
	}

	candidates := FindCommon(watchlists)
	h.broadcast(progress.Event{Type: progress.EventMatching, RequestID: requestID, Total: len(candidates)})

	movies := h.Enricher.Enrich(c.Request.Context(), requestID, candidates)
	h.broadcast(progress.Event{Type: progress.EventDone, RequestID: requestID, Total: len(movies)})
	log.Printf("[compare] %s: %d common movies", requestID, len(movies))

	c.JSON(http.StatusOK, gin.H{
		"movies":         movies,
		"commonCount":    len(movies),
		"usernames":      usernames,
		"watchlistSizes": sizes,
	})
}

func (h *Handler) broadcast(ev progress.Event) {
	if h.Hub == nil {
		return
	}
	ev.At = time.Now()
	h.Hub.BroadcastJSON(ev)
}

// collectUsernames merges the current and legacy request shapes into a
// trimmed, de-duplicated list capped at maxUsernames.
func collectUsernames(req compareRequest) []string {
	raw := req.Usernames
	if len(raw) == 0 {
		raw = append([]string{req.Username}, req.Friends...)
	}

	var out []string
	for _, u := range raw {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		out = appendIfMissing(out, u)
		if len(out) == maxUsernames {
			break
		}
	}
	return out
}

// CORSMiddleware allows the browser UI (served from anywhere) to call the
// API. Preflight requests are answered with 204 and no body.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
