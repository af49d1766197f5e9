package serpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/visa-hunter/internal/jobs"
)

const (
	apiURL    = "https://serpapi.com"
	userAgent = "spigell/visa-hunter"
	engine    = "google_jobs"
	// Results requested per query.
	perQuery = 20
)

// Client queries the Google Jobs engine of SerpAPI.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	// Location is passed to the provider as a location filter when set.
	Location string
}

// New creates a client with the given API key.
func New(logger *zap.Logger, token string) *Client {
	return &Client{
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// Search returns the postings found for a single free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]jobs.Posting, error) {
	q := url.Values{}
	q.Set("engine", engine)
	q.Set("q", query)
	q.Set("api_key", c.token)
	q.Set("num", strconv.Itoa(perQuery))
	if c.Location != "" {
		q.Set("location", c.Location)
	}

	var resp searchResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s%s", c.APIURL, searchPath), q, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("search %q: provider error: %s", query, resp.Error)
	}

	postings, err := decodeResults(resp.JobsResults)
	if err != nil {
		return nil, fmt.Errorf("decode results for %q: %w", query, err)
	}

	c.logger.Debug("got response from SerpAPI",
		zap.String("query", query),
		zap.Int("postings", len(postings)),
	)

	return postings, nil
}
