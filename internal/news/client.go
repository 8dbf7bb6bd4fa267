// Package news aggregates gaming headlines from public RSS feeds via the
// rss2json API. Upstream failures degrade to a static fallback set, never an
// error: the news rail is decorative, not critical.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultAPIURL = "https://api.rss2json.com/v1/api.json"

var defaultFeeds = []string{
	"https://kotaku.com/rss",
	"https://www.polygon.com/rss/index.xml",
	"https://www.gamespot.com/feeds/mashup/",
	"https://www.pcgamer.com/rss/",
	"https://www.gamesindustry.biz/rss",
}

// gamingPattern keeps feed items that are actually about games; general-news
// feeds slip unrelated articles into their streams.
var gamingPattern = regexp.MustCompile(`(?i)\b(game|gaming|esport|esports|dlc|patch|update|release|beta|alpha|review|trailer|developer|studio|platform|season)\b`)

var imagePattern = regexp.MustCompile(`<img[^>]+src="([^">]+)"`)

// Article is a normalized news item in the shape the front end renders.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishDate string `json:"publish_date"`
	URL         string `json:"site_detail_url"`
	Image       struct {
		ScreenURL string `json:"screen_url"`
	} `json:"image"`
}

func article(title, description, publishDate, link, image string) Article {
	a := Article{Title: title, Description: description, PublishDate: publishDate, URL: link}
	a.Image.ScreenURL = image
	return a
}

// FallbackArticles is served whenever every feed is unreachable or empty.
func FallbackArticles() []Article {
	now := time.Now()
	return []Article{
		article(
			"New Gaming Trends in 2025",
			"Explore the latest gaming trends and technologies shaping the industry.",
			now.Format(time.RFC3339),
			"https://www.gamesindustry.biz/",
			"https://images.unsplash.com/photo-1538481143235-5d630e8c0551?w=500&h=300&fit=crop",
		),
		article(
			"Top Games of December 2025",
			"The hottest releases and updates this month.",
			now.Add(-24*time.Hour).Format(time.RFC3339),
			"https://www.metacritic.com/browse/games/release-dates/games/date/",
			"https://images.unsplash.com/photo-1556200853-21a968d20e15?w=500&h=300&fit=crop",
		),
		article(
			"Esports Championship Finals",
			"Major esports tournaments wrapping up the season.",
			now.Add(-48*time.Hour).Format(time.RFC3339),
			"https://www.esportscharts.com/",
			"https://images.unsplash.com/photo-1593642532400-2682a8a6b975?w=500&h=300&fit=crop",
		),
	}
}

// rssResponse mirrors the rss2json payload.
type rssResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		PubDate     string `json:"pubDate"`
		Link        string `json:"link"`
		GUID        string `json:"guid"`
		Thumbnail   string `json:"thumbnail"`
	} `json:"items"`
}

type Client struct {
	apiURL     string
	feeds      []string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIURL overrides the rss2json endpoint, for tests.
func WithAPIURL(apiURL string) Option {
	return func(c *Client) { c.apiURL = apiURL }
}

// WithFeeds replaces the default feed list.
func WithFeeds(feeds []string) Option {
	return func(c *Client) { c.feeds = feeds }
}

func NewClient(logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		apiURL:     defaultAPIURL,
		feeds:      defaultFeeds,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LatestArticles fetches the feeds concurrently and returns up to pageSize
// gaming articles, newest first. It never fails: when every feed is down the
// static fallback set is returned.
func (c *Client) LatestArticles(ctx context.Context, pageSize int) []Article {
	if pageSize <= 0 {
		pageSize = 6
	}

	results := make([][]Article, len(c.feeds))
	g, ctx := errgroup.WithContext(ctx)
	for i, feed := range c.feeds {
		i, feed := i, feed
		g.Go(func() error {
			articles, err := c.fetchFeed(ctx, feed)
			if err != nil {
				c.logger.WarnContext(ctx, "news feed fetch failed", "feed", feed, "error", err)
				return nil // a dead feed never fails the whole fetch
			}
			results[i] = articles
			return nil
		})
	}
	_ = g.Wait()

	var all []Article
	for _, articles := range results {
		all = append(all, articles...)
	}
	if len(all) == 0 {
		fallback := FallbackArticles()
		if len(fallback) > pageSize {
			fallback = fallback[:pageSize]
		}
		return fallback
	}

	all = dedupeByURL(all)
	sort.SliceStable(all, func(i, j int) bool {
		return parseDate(all[i].PublishDate).After(parseDate(all[j].PublishDate))
	})
	if len(all) > pageSize {
		all = all[:pageSize]
	}
	return all
}

func (c *Client) fetchFeed(ctx context.Context, feed string) ([]Article, error) {
	endpoint := c.apiURL + "?rss_url=" + url.QueryEscape(feed)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %d", resp.StatusCode)
	}

	var parsed rssResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	var articles []Article
	for _, item := range parsed.Items {
		if !gamingPattern.MatchString(item.Title + " " + item.Content + " " + item.Description) {
			continue
		}

		link := item.Link
		if link == "" {
			link = item.GUID
		}
		publishDate := item.PubDate
		if publishDate == "" {
			publishDate = time.Now().Format(time.RFC3339)
		}
		image := item.Thumbnail
		if image == "" {
			image = extractImage(item.Content)
		}
		if image == "" {
			image = FallbackArticles()[0].Image.ScreenURL
		}

		description := item.Description
		if description == "" {
			description = item.Content
		}
		articles = append(articles, article(item.Title, description, publishDate, link, image))
	}
	return articles, nil
}

func dedupeByURL(articles []Article) []Article {
	seen := make(map[string]bool, len(articles))
	var unique []Article
	for _, a := range articles {
		if a.URL == "" || seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		unique = append(unique, a)
	}
	return unique
}

// parseDate tolerates the RFC1123 variants RSS feeds use alongside RFC3339.
func parseDate(value string) time.Time {
	for _, layout := range []string{time.RFC3339, time.RFC1123Z, time.RFC1123, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, strings.TrimSpace(value)); err == nil {
			return t
		}
	}
	return time.Time{}
}

func extractImage(content string) string {
	match := imagePattern.FindStringSubmatch(content)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}
