package models

// RawEntry is one watchlist item exactly as scraped from Letterboxd HTML.
// Title keeps whatever encoding the page carried (HTML entities, mojibake);
// normalization happens at grouping/matching time, never here.
type RawEntry struct {
	Title string `json:"title"`
	Year  int    `json:"year"` // 0 = unknown
	Slug  string `json:"slug,omitempty"`
}

// Watchlist is one user's scraped list.
type Watchlist struct {
	Username string     `json:"username"`
	Entries  []RawEntry `json:"entries"`
}

// Movie is a canonical catalog row. Read-only from the matching core's
// perspective; written only by the catalog-sync tool.
type Movie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	PosterPath  string   `json:"poster_path,omitempty"`
	Overview    string   `json:"overview,omitempty"`
	VoteAverage float64  `json:"vote_average,omitempty"`
	Director    string   `json:"director,omitempty"`
	Runtime     int      `json:"runtime,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Popularity  float64  `json:"popularity,omitempty"`
}

// CommonMovie is a movie that appeared on at least two users' watchlists.
// Title/Year/Slug come from the first-seen entry of the group.
type CommonMovie struct {
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Slug        string   `json:"slug,omitempty"`
	FriendCount int      `json:"friendCount"`
	FriendList  []string `json:"friendList"`
}

// EnrichedMovie is the terminal output record: a common movie joined with
// its catalog metadata, or a synthesized fallback when no catalog row
// matched (fallback IDs are always >= 900000).
type EnrichedMovie struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Year           int      `json:"year"`
	PosterPath     string   `json:"poster_path,omitempty"`
	Overview       string   `json:"overview,omitempty"`
	VoteAverage    float64  `json:"vote_average,omitempty"`
	Director       string   `json:"director,omitempty"`
	Runtime        int      `json:"runtime,omitempty"`
	Genres         []string `json:"genres,omitempty"`
	LetterboxdSlug string   `json:"letterboxdSlug,omitempty"`
	FriendCount    int      `json:"friendCount"`
	FriendList     []string `json:"friendList"`
}
