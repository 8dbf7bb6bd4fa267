// Package catalog proxies the RAWG games database. The service only ever
// reads from it, so the client is a thin list call with bounded retries.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
)

const defaultBaseURL = "https://api.rawg.io/api"

// NamedRef is a referenced entity (genre, platform) in a RAWG response.
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Game is the subset of RAWG game fields the front end renders.
type Game struct {
	ID              int64      `json:"id"`
	Slug            string     `json:"slug"`
	Name            string     `json:"name"`
	Released        string     `json:"released"`
	BackgroundImage string     `json:"background_image"`
	Rating          float64    `json:"rating"`
	Metacritic      int        `json:"metacritic"`
	Genres          []NamedRef `json:"genres"`
	Platforms       []struct {
		Platform NamedRef `json:"platform"`
	} `json:"platforms"`
}

// GamesPage is one page of catalog results.
type GamesPage struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []Game `json:"results"`
}

// GamesQuery selects and orders a catalog page. Zero values are omitted.
type GamesQuery struct {
	Page      int
	PageSize  int
	Search    string
	Ordering  string
	Genres    []string
	Platforms []string
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListGames fetches one page of games. Transient upstream failures (5xx,
// network errors) are retried a few times before the error surfaces.
func (c *Client) ListGames(ctx context.Context, q GamesQuery) (*GamesPage, error) {
	endpoint, err := c.gamesURL(q)
	if err != nil {
		return nil, err
	}

	var page *GamesPage
	err = retry.Do(
		func() error {
			fetched, err := c.fetchPage(ctx, endpoint)
			if err != nil {
				return err
			}
			page = fetched
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !dErrors.HasCode(err, dErrors.CodeBadRequest)
		}),
	)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeBadRequest) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "game catalog unavailable")
	}
	return page, nil
}

func (c *Client) gamesURL(q GamesQuery) (string, error) {
	u, err := url.Parse(c.baseURL + "/games")
	if err != nil {
		return "", fmt.Errorf("parse catalog URL: %w", err)
	}

	params := u.Query()
	params.Set("key", c.apiKey)
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Ordering != "" {
		params.Set("ordering", q.Ordering)
	}
	if len(q.Genres) > 0 {
		params.Set("genres", strings.Join(q.Genres, ","))
	}
	if len(q.Platforms) > 0 {
		params.Set("platforms", strings.Join(q.Platforms, ","))
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func (c *Client) fetchPage(ctx context.Context, endpoint string) (*GamesPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("catalog returned %d", resp.StatusCode)
	default:
		// 4xx means our request is wrong; retrying will not help.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("catalog rejected request: %d %s", resp.StatusCode, body))
	}

	var page GamesPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return &page, nil
}
