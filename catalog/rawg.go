// Package catalog wraps the RAWG video game database API. Every call
// is a fresh network round trip; there is no caching and no retry.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.rawg.io/api"

// PlaceholderImage is substituted whenever the provider payload has no
// image, so templates can always rely on ImageURL being set.
const PlaceholderImage = "/public/img/game_placeholder.svg"

// ErrNotFound means the provider reported that the game id does not
// exist.
var ErrNotFound = errors.New("catalog: game not found")

// UpstreamError is a non-success HTTP status from the provider.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("catalog: upstream returned status %d", e.StatusCode)
}

// ParseError means the provider responded but the body was not the
// expected shape.
type ParseError struct {
	cause error
}

func (e *ParseError) Error() string {
	return "catalog: malformed provider response: " + e.cause.Error()
}

func (e *ParseError) Unwrap() error {
	return e.cause
}

// GameRecord is the normalized view of a catalog entry.
type GameRecord struct {
	ID          int
	Name        string
	Description string
	ReleaseDate string
	ImageURL    string
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 8 * time.Second},
	}
}

type gameResponse struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	DescriptionRaw  string `json:"description_raw"`
	Released        string `json:"released"`
	BackgroundImage string `json:"background_image"`
}

type listResponse struct {
	Results []gameResponse `json:"results"`
}

// FetchGameDetails looks up a single game by its RAWG id.
func (c *Client) FetchGameDetails(ctx context.Context, gameID int) (*GameRecord, error) {
	endpoint := fmt.Sprintf("%s/games/%d?key=%s", c.baseURL, gameID, url.QueryEscape(c.apiKey))

	var out gameResponse
	if err := c.get(ctx, endpoint, &out); err != nil {
		return nil, err
	}

	record := normalize(out)
	return &record, nil
}

// FetchUpcoming lists games releasing within the next year, release
// date ascending. The ordering is the provider's, not re-checked here.
func (c *Client) FetchUpcoming(ctx context.Context, limit int) ([]GameRecord, error) {
	now := time.Now().UTC()
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("dates", now.Format("2006-01-02")+","+now.AddDate(1, 0, 0).Format("2006-01-02"))
	query.Set("ordering", "released")
	query.Set("page_size", strconv.Itoa(limit))

	return c.list(ctx, query)
}

// SearchGames searches by name. The query is URL-encoded but otherwise
// passed through as-is.
func (c *Client) SearchGames(ctx context.Context, searchQuery string, limit int) ([]GameRecord, error) {
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("search", searchQuery)
	query.Set("page_size", strconv.Itoa(limit))

	return c.list(ctx, query)
}

func (c *Client) list(ctx context.Context, query url.Values) ([]GameRecord, error) {
	endpoint := c.baseURL + "/games?" + query.Encode()

	var out listResponse
	if err := c.get(ctx, endpoint, &out); err != nil {
		return nil, err
	}

	records := make([]GameRecord, 0, len(out.Results))
	for _, result := range out.Results {
		records = append(records, normalize(result))
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "CodeCriticalBlog/1.0")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &UpstreamError{StatusCode: res.StatusCode}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &ParseError{cause: err}
	}
	return nil
}

func normalize(in gameResponse) GameRecord {
	record := GameRecord{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.DescriptionRaw,
		ReleaseDate: in.Released,
		ImageURL:    in.BackgroundImage,
	}
	if record.ImageURL == "" {
		record.ImageURL = PlaceholderImage
	}
	return record
}
