package acl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen/quotevault/internal/adapters/clients"
	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
)

const (
	// feedServiceName identifies the feed in errors and health checks.
	feedServiceName = "quote-feed"

	// feedPath is the feed's listing endpoint.
	feedPath = "/posts"

	// defaultFeedPageSize caps how many feed items one fetch considers.
	defaultFeedPageSize = 20
)

// FeedClientConfig contains configuration for the feed client.
type FeedClientConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be set to the feed endpoint.
	Client *clients.Client

	// PageSize caps how many items are taken from one fetch.
	// Defaults to 20.
	PageSize int

	// Logger is the structured logger.
	Logger *slog.Logger

	// Now is overridable for testing. Defaults to time.Now.
	Now func() time.Time
}

// FeedClient implements ports.SyncSource against a JSONPlaceholder-style
// feed. Each feed post becomes a quote candidate: the title is the
// quote text and the posting user becomes a topic category.
type FeedClient struct {
	BaseAdapter
	pageSize int
	logger   *slog.Logger
	now      func() time.Time
}

// NewFeedClient creates a new feed client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewFeedClient(cfg FeedClientConfig) *FeedClient {
	if cfg.Client == nil {
		panic("acl: FeedClientConfig.Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultFeedPageSize
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &FeedClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, feedServiceName),
		pageSize:    pageSize,
		logger:      logger,
		now:         now,
	}
}

// feedItem is the external DTO from the feed.
// This is an internal type, never exposed outside the ACL.
type feedItem struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// FetchCandidates retrieves the feed listing and translates it to
// domain quotes. Items that fail validation are dropped individually.
// Implements ports.SyncSource.
func (c *FeedClient) FetchCandidates(ctx context.Context) ([]domain.Quote, error) {
	const operation = "fetch candidates"

	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", feedPath))
	c.logger.DebugContext(ctx, "fetching feed candidates")

	body, err := c.Get(ctx, feedPath, operation)
	if err != nil {
		return nil, err
	}

	items, err := DecodeResponse[[]feedItem](body)
	if err != nil {
		return nil, domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	page := *items
	if len(page) > c.pageSize {
		page = page[:c.pageSize]
	}

	translated, dropped := TranslateSlice(page, c.translateItem)
	if dropped > 0 {
		c.logger.DebugContext(ctx, "dropped invalid feed items",
			slog.Int("dropped", dropped),
			slog.Int("fetched", len(page)))
	}

	quotes := make([]domain.Quote, 0, len(translated))
	for _, q := range translated {
		quotes = append(quotes, *q)
	}

	c.logger.Log(ctx, logging.LevelTrace, "translated feed page",
		slog.Int("candidates", len(quotes)))

	return quotes, nil
}

// translateItem converts one feed post to a quote candidate.
// This isolates the domain from feed schema changes.
func (c *FeedClient) translateItem(ext *feedItem) (*domain.Quote, error) {
	if err := ValidatePositive(ext.ID, "id"); err != nil {
		return nil, err
	}

	if err := ValidateRequired(ext.Title, "title"); err != nil {
		return nil, err
	}

	return &domain.Quote{
		ID:        "server-" + strconv.FormatInt(ext.ID, 10),
		Text:      ext.Title,
		Category:  "Topic-" + strconv.FormatInt(ext.UserID, 10),
		UpdatedAt: c.now(),
	}, nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *FeedClient) Name() string {
	return feedServiceName
}

// Check performs a health check by requesting the feed listing.
// Implements ports.HealthChecker.
func (c *FeedClient) Check(ctx context.Context) error {
	resp, err := c.Client().Get(ctx, feedPath)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	return nil
}
