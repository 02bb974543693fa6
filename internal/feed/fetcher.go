package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"podcast-ingest/internal/models"
)

const userAgent = "podcast-ingest/1.0"

var (
	ErrNoItems          = errors.New("feed contains no items")
	ErrMissingLink      = errors.New("item has no link")
	ErrMissingEnclosure = errors.New("item has no enclosure url")
	ErrNotMarkup        = errors.New("payload is not an RSS or Atom document")
)

// FetchError reports that the feed could not be retrieved.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch feed %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a payload that is not a feed or lacks the item shape
// ingestion needs. Item is the zero-based index of the offending item, or -1
// when the document as a whole is at fault.
type ParseError struct {
	URL  string
	Item int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Item >= 0 {
		return fmt.Sprintf("failed to parse feed %s: item %d: %v", e.URL, e.Item, e.Err)
	}
	return fmt.Sprintf("failed to parse feed %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Fetcher downloads and parses a podcast feed. It performs exactly one
// request per call and never retries.
type Fetcher struct {
	parser *gofeed.Parser
	client *http.Client
}

func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{parser: gofeed.NewParser(), client: client}
}

// Fetch retrieves feedURL and maps every item to a RemoteItem, in document order.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]models.RemoteItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, &FetchError{URL: feedURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: feedURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: feedURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: feedURL, Err: err}
	}

	// Only markup feeds carry the channel/item shape ingestion maps from.
	switch gofeed.DetectFeedType(bytes.NewReader(body)) {
	case gofeed.FeedTypeRSS, gofeed.FeedTypeAtom:
	default:
		return nil, &ParseError{URL: feedURL, Item: -1, Err: ErrNotMarkup}
	}

	parsed, err := f.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{URL: feedURL, Item: -1, Err: err}
	}

	items, err := mapItems(parsed)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.URL = feedURL
		}
		return nil, err
	}

	log.Printf("Found %d episodes", len(items))
	return items, nil
}

func mapItems(parsed *gofeed.Feed) ([]models.RemoteItem, error) {
	if parsed == nil || len(parsed.Items) == 0 {
		return nil, &ParseError{Item: -1, Err: ErrNoItems}
	}

	items := make([]models.RemoteItem, 0, len(parsed.Items))
	for i, it := range parsed.Items {
		item, err := mapItem(it)
		if err != nil {
			return nil, &ParseError{Item: i, Err: err}
		}
		items = append(items, item)
	}
	return items, nil
}

func mapItem(it *gofeed.Item) (models.RemoteItem, error) {
	if it == nil {
		return models.RemoteItem{}, ErrMissingLink
	}
	link := strings.TrimSpace(it.Link)
	if link == "" {
		return models.RemoteItem{}, ErrMissingLink
	}
	if _, err := FilenameForLink(link); err != nil {
		return models.RemoteItem{}, err
	}

	enclosure := ""
	for _, enc := range it.Enclosures {
		if enc != nil && strings.TrimSpace(enc.URL) != "" {
			enclosure = strings.TrimSpace(enc.URL)
			break
		}
	}
	if enclosure == "" {
		return models.RemoteItem{}, ErrMissingEnclosure
	}
	if _, err := url.Parse(enclosure); err != nil {
		return models.RemoteItem{}, fmt.Errorf("invalid enclosure url: %w", err)
	}

	return models.RemoteItem{
		Link:         link,
		Title:        it.Title,
		PublishedAt:  it.Published,
		Description:  it.Description,
		EnclosureURL: enclosure,
	}, nil
}
