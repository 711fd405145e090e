package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"newsight/models"
)

// maxResultsPerCall is the Custom Search API per-request cap. Larger requests
// are clamped, not paginated.
const maxResultsPerCall = 10

type item struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Pagemap struct {
		Metatags []map[string]string `json:"metatags"`
	} `json:"pagemap"`
}

type response struct {
	Items []item `json:"items"`
}

// GoogleClient fetches recent news results from the Google Custom Search API.
type GoogleClient struct {
	apiKey     string
	cseID      string
	endpoint   string
	httpClient *http.Client
	logger     *log.Logger
}

// NewGoogleClient creates a search client with a bounded request timeout.
func NewGoogleClient(apiKey, cseID, endpoint string, timeout time.Duration) *GoogleClient {
	if endpoint == "" {
		endpoint = "https://www.googleapis.com/customsearch/v1"
	}
	return &GoogleClient{
		apiKey:     apiKey,
		cseID:      cseID,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.New(log.Writer(), "[SEARCH] ", log.LstdFlags),
	}
}

// Fetch returns up to count recent articles about topic, newest first.
// A query with zero matches yields an empty slice and no error.
func (g *GoogleClient) Fetch(ctx context.Context, topic string, count int) ([]models.Article, error) {
	if g.apiKey == "" || g.cseID == "" {
		return nil, fmt.Errorf("%w: missing api key or cse id", models.ErrSourceUnavailable)
	}
	if count > maxResultsPerCall {
		count = maxResultsPerCall
	}
	if count <= 0 {
		count = maxResultsPerCall
	}

	params := url.Values{}
	params.Add("key", g.apiKey)
	params.Add("cx", g.cseID)
	params.Add("q", "Recent news about "+topic)
	params.Add("num", fmt.Sprintf("%d", count))
	params.Add("sort", "date")

	reqURL := fmt.Sprintf("%s?%s", g.endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSourceUnavailable, err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search api status %s", models.ErrSourceUnavailable, resp.Status)
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", models.ErrSourceUnavailable, err)
	}

	articles := make([]models.Article, 0, len(result.Items))
	for _, it := range result.Items {
		articles = append(articles, models.Article{
			Title:       it.Title,
			Link:        it.Link,
			Snippet:     it.Snippet,
			PublishedAt: publishedTime(it),
		})
	}
	g.logger.Printf("fetched %d articles for %q", len(articles), topic)
	return articles, nil
}

// publishedTime pulls article:published_time out of the result's metatags.
func publishedTime(it item) time.Time {
	if len(it.Pagemap.Metatags) == 0 {
		return time.Time{}
	}
	raw := it.Pagemap.Metatags[0]["article:published_time"]
	if raw == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}
